package binder

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"camswitch/internal/camera"
)

// defaultProbeTimeout はprobeTimeoutが指定されない場合の確認タイムアウト
const defaultProbeTimeout = 3 * time.Second

// probeFunc はデバイスを確認し、v4l2-ctl --info の項目を返す
type probeFunc func(ctx context.Context, devicePath string) (map[string]string, error)

// V4L2 は内蔵レンズIDをV4L2デバイスに結び付けるBinder
type V4L2 struct {
	devices map[string]string // レンズID -> デバイスパス
	timeout time.Duration
	probe   probeFunc
	logger  *slog.Logger

	mu    sync.RWMutex
	bound string
}

// NewV4L2 は新しいV4L2を作成する
func NewV4L2(devices map[string]string, timeout time.Duration, logger *slog.Logger) *V4L2 {
	return newV4L2(devices, timeout, logger, deviceInfo)
}

func newV4L2(devices map[string]string, timeout time.Duration, logger *slog.Logger, probe probeFunc) *V4L2 {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	copied := make(map[string]string, len(devices))
	for id, path := range devices {
		copied[id] = path
	}

	return &V4L2{
		devices: copied,
		timeout: timeout,
		probe:   probe,
		logger:  logger,
	}
}

// Bind はdeviceIDのデバイスが使えることを確認し、接続先として記録する
func (v *V4L2) Bind(ctx context.Context, deviceID string, facing camera.Facing) error {
	path, ok := v.devices[deviceID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDeviceUnknown, deviceID)
	}

	probeCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	info, err := v.probe(probeCtx, path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrProbeFailed, path, err)
	}

	v.mu.Lock()
	v.bound = deviceID
	v.mu.Unlock()

	v.logger.Info("bound v4l2 device",
		"device_id", deviceID,
		"facing", facing,
		"path", path,
		"card", info["Card type"],
	)
	return nil
}

// Bound は最後に接続したデバイスIDを返す
func (v *V4L2) Bound() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bound
}

// Close は何もしない（デバイスは開いたままにしない）
func (v *V4L2) Close() error {
	return nil
}

// deviceInfo はv4l2-ctlでデバイス情報を取得する
func deviceInfo(ctx context.Context, devicePath string) (map[string]string, error) {
	cmd := exec.CommandContext(ctx, "v4l2-ctl", "--device", devicePath, "--info")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("デバイス情報の取得に失敗: %w", err)
	}
	return parseDeviceInfo(string(output)), nil
}

// parseDeviceInfo は "key : value" 形式の行を読み取る
func parseDeviceInfo(output string) map[string]string {
	info := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		info[key] = strings.TrimSpace(value)
	}
	return info
}
