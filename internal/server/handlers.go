package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"camswitch/internal/camera"
	"camswitch/internal/config"
	"camswitch/internal/generated"
)

// unsupportedWarning は内蔵以外のカメラを選択したときの警告文
const unsupportedWarning = "Camera requires special setup"

// Handler は生成されたServerInterfaceを実装する
type Handler struct {
	config   *config.Config
	switcher *camera.Switcher
	now      func() time.Time
}

var _ generated.ServerInterface = (*Handler)(nil)

// NewHandler は新しいHandlerを作成する
func NewHandler(cfg *config.Config, switcher *camera.Switcher) *Handler {
	return &Handler{
		config:   cfg,
		switcher: switcher,
		now:      time.Now,
	}
}

// HealthCheck はヘルスチェックエンドポイントの実装
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, generated.HealthResponse{
		Status:    generated.Healthy,
		Timestamp: h.now(),
	})
}

// GetStatus はシステム状態取得エンドポイントの実装
func (h *Handler) GetStatus(c *gin.Context) {
	view := h.switcher.View()

	response := generated.StatusResponse{
		Status: generated.Running,
		Server: generated.ServerInfo{
			Host: h.config.Server.Host,
			Port: h.config.Server.Port,
		},
		Binder:    h.config.Binder.Kind,
		Cameras:   len(view.Devices),
		ActiveId:  optionalString(view.ActiveID),
		Timestamp: h.now(),
	}
	if view.Snapshot != nil {
		response.PassId = optionalString(view.Snapshot.PassID)
	}

	c.JSON(http.StatusOK, response)
}

// GetCameras はカメラ一覧取得エンドポイントの実装
func (h *Handler) GetCameras(c *gin.Context) {
	c.JSON(http.StatusOK, h.camerasResponse(h.switcher.View()))
}

// GetCurrentCamera は現在のカメラ取得エンドポイントの実装
func (h *Handler) GetCurrentCamera(c *gin.Context) {
	view := h.switcher.View()
	dev, ok := view.Current()
	if !ok {
		h.writeError(c, http.StatusConflict, "no_cameras", "カメラが見つかりません")
		return
	}

	c.JSON(http.StatusOK, generated.SelectResponse{
		Camera:    cameraInfo(dev, view.ActiveID),
		Index:     view.Index,
		Activated: view.ActiveID == dev.ID,
	})
}

// DiscoverCameras は再検出エンドポイントの実装
func (h *Handler) DiscoverCameras(c *gin.Context) {
	if _, err := h.switcher.Refresh(c.Request.Context()); err != nil && !errors.Is(err, camera.ErrEmptyCatalog) {
		h.writeError(c, http.StatusInternalServerError, "discovery_failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.camerasResponse(h.switcher.View()))
}

// SelectNext は次のカメラへの切り替えエンドポイントの実装
func (h *Handler) SelectNext(c *gin.Context) {
	sel, err := h.switcher.Next(c.Request.Context())
	h.writeSelection(c, sel, err)
}

// SelectPrevious は前のカメラへの切り替えエンドポイントの実装
func (h *Handler) SelectPrevious(c *gin.Context) {
	sel, err := h.switcher.Previous(c.Request.Context())
	h.writeSelection(c, sel, err)
}

// SelectByID はIDによる切り替えエンドポイントの実装
func (h *Handler) SelectByID(c *gin.Context, id string) {
	sel, err := h.switcher.SelectByID(c.Request.Context(), id)
	h.writeSelection(c, sel, err)
}

// SelectByIndex は位置による切り替えエンドポイントの実装
func (h *Handler) SelectByIndex(c *gin.Context, index int) {
	sel, err := h.switcher.SelectByIndex(c.Request.Context(), index)
	h.writeSelection(c, sel, err)
}

// SelectByName は表示名による切り替えエンドポイントの実装
func (h *Handler) SelectByName(c *gin.Context, params generated.SelectByNameParams) {
	sel, err := h.switcher.SelectByName(c.Request.Context(), params.Q)
	h.writeSelection(c, sel, err)
}

// GetNames は表示名一覧エンドポイントの実装
func (h *Handler) GetNames(c *gin.Context) {
	entries, err := h.switcher.Catalog().NameEntries(c.Request.Context())
	if err != nil {
		h.writeError(c, http.StatusInternalServerError, "store_failed", err.Error())
		return
	}

	names := make([]generated.NameEntry, 0, len(entries))
	for _, entry := range entries {
		names = append(names, generated.NameEntry{
			Id:          entry.ID,
			DefaultName: entry.DefaultName,
			CustomName:  optionalString(entry.CustomName),
		})
	}
	c.JSON(http.StatusOK, generated.NamesResponse{Names: names})
}

// RenameCamera は表示名の保存エンドポイントの実装
//
// 空文字や既定名と同じ名前は上書きの削除として扱う。
func (h *Handler) RenameCamera(c *gin.Context, id string) {
	var req generated.RenameCameraJSONRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, http.StatusBadRequest, "invalid_body", "リクエストボディが不正です")
		return
	}

	if _, err := h.switcher.Rename(c.Request.Context(), id, req.Name); err != nil && !errors.Is(err, camera.ErrEmptyCatalog) {
		h.writeError(c, http.StatusInternalServerError, "store_failed", err.Error())
		return
	}
	h.GetNames(c)
}

// DeleteName は1台の表示名を既定に戻すエンドポイントの実装
func (h *Handler) DeleteName(c *gin.Context, id string) {
	if _, err := h.switcher.RemoveName(c.Request.Context(), id); err != nil && !errors.Is(err, camera.ErrEmptyCatalog) {
		h.writeError(c, http.StatusInternalServerError, "store_failed", err.Error())
		return
	}
	h.GetNames(c)
}

// ResetNames は全ての表示名を既定に戻すエンドポイントの実装
func (h *Handler) ResetNames(c *gin.Context) {
	if _, err := h.switcher.ResetNames(c.Request.Context()); err != nil && !errors.Is(err, camera.ErrEmptyCatalog) {
		h.writeError(c, http.StatusInternalServerError, "store_failed", err.Error())
		return
	}
	h.GetNames(c)
}

// ヘルパー関数

// writeSelection は切り替え結果をエラーの種類に応じたステータスで返す
func (h *Handler) writeSelection(c *gin.Context, sel camera.Selection, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, selectResponse(sel, true, ""))
	case errors.Is(err, camera.ErrUnsupportedSource):
		c.JSON(http.StatusOK, selectResponse(sel, false, unsupportedWarning))
	case errors.Is(err, camera.ErrEmptyCatalog):
		h.writeError(c, http.StatusConflict, "no_cameras", "カメラが見つかりません")
	case errors.Is(err, camera.ErrNotFound):
		h.writeError(c, http.StatusNotFound, "camera_not_found", "指定されたカメラが見つかりません")
	case errors.Is(err, camera.ErrIndexOutOfRange):
		h.writeError(c, http.StatusBadRequest, "index_out_of_range", err.Error())
	case errors.Is(err, camera.ErrActivationFailed):
		c.JSON(http.StatusBadGateway, selectResponse(sel, false, err.Error()))
	default:
		h.writeError(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// invalidParameter はパラメータの変換に失敗したリクエストに応答する
func (h *Handler) invalidParameter(c *gin.Context, err error, status int) {
	h.writeError(c, status, "invalid_parameter", err.Error())
}

// invalidRequest はOpenAPI定義に合わないリクエストに応答する
func (h *Handler) invalidRequest(c *gin.Context, message string, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, generated.ErrorResponse{
		Error:     "invalid_request",
		Message:   message,
		Details:   stringPtr(err.Error()),
		Timestamp: h.now(),
	})
}

func (h *Handler) writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, generated.ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: h.now(),
	})
}

func (h *Handler) camerasResponse(view camera.View) generated.CamerasResponse {
	response := generated.CamerasResponse{
		Cameras:  make([]generated.CameraInfo, 0, len(view.Devices)),
		Warnings: []string{},
		ActiveId: optionalString(view.ActiveID),
	}

	for _, dev := range view.Devices {
		response.Cameras = append(response.Cameras, cameraInfo(dev, view.ActiveID))
	}
	if len(view.Devices) > 0 {
		index := view.Index
		response.Index = &index
	}

	if snap := view.Snapshot; snap != nil {
		response.PassId = optionalString(snap.PassID)
		discoveredAt := snap.DiscoveredAt
		response.DiscoveredAt = &discoveredAt
		for _, w := range snap.Warnings {
			response.Warnings = append(response.Warnings, w.Error())
		}
	}
	return response
}

func selectResponse(sel camera.Selection, activated bool, warning string) generated.SelectResponse {
	return generated.SelectResponse{
		Camera:    cameraInfo(sel.ClassifiedDevice, sel.ActiveID),
		Index:     sel.Index,
		Activated: activated,
		Warning:   optionalString(warning),
	}
}

// cameraInfo はデバイスを生成されたスキーマに変換する
func cameraInfo(dev camera.ClassifiedDevice, activeID string) generated.CameraInfo {
	return generated.CameraInfo{
		Id:            dev.ID,
		Source:        generated.CameraInfoSource(dev.Source),
		Facing:        generated.CameraInfoFacing(dev.Facing),
		FocalLengthMm: dev.FocalLengthMM,
		Label:         optionalString(dev.Label),
		Device:        optionalString(dev.Device),
		DefaultName:   dev.DefaultName,
		DisplayName:   dev.DisplayName,
		Overridden:    dev.Overridden(),
		Active:        activeID != "" && activeID == dev.ID,
	}
}

// stringPtr は文字列のポインタを返すヘルパー関数
func stringPtr(s string) *string {
	return &s
}

// optionalString は空文字ならnilを返す
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
