package camera

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Selector は現在のデバイス一覧とカーソルを保持し、アクティブなデバイスを切り替える
//
// カタログの置き換え、カーソル移動、Binderの呼び出しは1つのミューテックスで
// 直列化される。
type Selector struct {
	binder Binder
	logger *slog.Logger

	mu       sync.Mutex
	snapshot *Snapshot // devicesの元になった検出パス
	devices  []ClassifiedDevice
	cursor   cursor
	activeID string // 最後に接続に成功したデバイス。カタログから消えたら空に戻す
}

// Selection は切り替え操作の結果
//
// デバイス、位置、接続中のIDは同じロックの下で読み取った組になっている。
type Selection struct {
	ClassifiedDevice
	Index    int
	ActiveID string
}

// Active は選択したデバイスが接続中かを返す
func (s Selection) Active() bool {
	return s.ActiveID != "" && s.ActiveID == s.ID
}

// View はSelectorの状態を1回のロックで読み取ったもの
//
// Devicesが空のときIndexは意味を持たない。
type View struct {
	Snapshot *Snapshot // SetCatalogで直接置き換えた場合はnil
	Devices  []ClassifiedDevice
	Index    int
	ActiveID string
}

// Current はカーソル位置のデバイスを返す。カタログが空ならfalse
func (v View) Current() (ClassifiedDevice, bool) {
	if len(v.Devices) == 0 {
		return ClassifiedDevice{}, false
	}
	return v.Devices[v.Index], true
}

// NewSelector は新しいSelectorを作成する。binderがnilなら常に成功する
func NewSelector(binder Binder, opts ...Option) *Selector {
	o := applyOptions(opts)
	if binder == nil {
		binder = BinderFunc(func(context.Context, string, Facing) error { return nil })
	}
	return &Selector{
		binder: binder,
		logger: o.logger.With("component", "selector"),
	}
}

// SetCatalog はデバイス一覧を置き換える。Binderは呼ばない
func (s *Selector) SetCatalog(devices []ClassifiedDevice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(nil, devices)
}

// Publish は検出パスの結果をデバイス一覧と共に反映する。Binderは呼ばない
func (s *Selector) Publish(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var devices []ClassifiedDevice
	if snap != nil {
		devices = snap.Devices
	}
	s.setLocked(snap, devices)
}

func (s *Selector) setLocked(snap *Snapshot, devices []ClassifiedDevice) {
	s.snapshot = snap
	s.devices = append([]ClassifiedDevice(nil), devices...)
	s.cursor.normalize(len(s.devices))

	if s.activeID != "" && !containsID(s.devices, s.activeID) {
		s.logger.Info("active camera disappeared", "device_id", s.activeID)
		s.activeID = ""
	}
}

func containsID(devices []ClassifiedDevice, id string) bool {
	for _, dev := range devices {
		if dev.ID == id {
			return true
		}
	}
	return false
}

// View は現在の状態のコピーを返す
func (s *Selector) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		Snapshot: s.snapshot,
		Devices:  append([]ClassifiedDevice(nil), s.devices...),
		Index:    s.cursor.Index(),
		ActiveID: s.activeID,
	}
}

// Devices は現在のデバイス一覧のコピーを返す
func (s *Selector) Devices() []ClassifiedDevice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ClassifiedDevice(nil), s.devices...)
}

// Current はカーソル位置のデバイスを返す。カタログが空ならfalse
func (s *Selector) Current() (ClassifiedDevice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.devices) == 0 {
		return ClassifiedDevice{}, false
	}
	return s.devices[s.cursor.Index()], true
}

// Index はカーソル位置を返す。カタログが空ならfalse
func (s *Selector) Index() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.devices) == 0 {
		return 0, false
	}
	return s.cursor.Index(), true
}

// ActiveID は最後に接続に成功したデバイスのIDを返す
func (s *Selector) ActiveID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID, s.activeID != ""
}

// SelectNext は次のデバイスに移動して接続する（末尾からは先頭へ）
func (s *Selector) SelectNext(ctx context.Context) (Selection, error) {
	return s.step(ctx, 1)
}

// SelectPrevious は前のデバイスに移動して接続する（先頭からは末尾へ）
func (s *Selector) SelectPrevious(ctx context.Context) (Selection, error) {
	return s.step(ctx, -1)
}

func (s *Selector) step(ctx context.Context, delta int) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.devices) == 0 {
		return Selection{}, ErrEmptyCatalog
	}
	s.cursor.step(delta, len(s.devices))
	return s.activateLocked(ctx)
}

// SelectByID はIDが一致する最初のデバイスに移動して接続する
//
// 見つからなければErrNotFoundを返し、カーソルは変えない。
func (s *Selector) SelectByID(ctx context.Context, id string) (Selection, error) {
	return s.selectFirst(ctx, func(d ClassifiedDevice) bool {
		return d.ID == id
	}, id)
}

// SelectByName は表示名にsubstrを含む最初のデバイスに移動して接続する
//
// "Front"、"Wide"、"USB" のような種類指定のボタンに使う。大文字小文字は区別する。
func (s *Selector) SelectByName(ctx context.Context, substr string) (Selection, error) {
	return s.selectFirst(ctx, func(d ClassifiedDevice) bool {
		return strings.Contains(d.DisplayName, substr)
	}, substr)
}

func (s *Selector) selectFirst(ctx context.Context, match func(ClassifiedDevice) bool, query string) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, dev := range s.devices {
		if match(dev) {
			s.cursor.moveTo(i, len(s.devices))
			return s.activateLocked(ctx)
		}
	}
	return Selection{}, fmt.Errorf("%q: %w", query, ErrNotFound)
}

// SelectByIndex はi番目のデバイスに移動して接続する
//
// 範囲外ならErrIndexOutOfRangeを返し、カーソルは変えない。
func (s *Selector) SelectByIndex(ctx context.Context, i int) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cursor.moveTo(i, len(s.devices)) {
		return Selection{}, fmt.Errorf("index %d of %d: %w", i, len(s.devices), ErrIndexOutOfRange)
	}
	return s.activateLocked(ctx)
}

// Reactivate はカーソル位置のデバイスに再度接続する
func (s *Selector) Reactivate(ctx context.Context) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.devices) == 0 {
		return Selection{}, ErrEmptyCatalog
	}
	s.cursor.normalize(len(s.devices))
	return s.activateLocked(ctx)
}

// activateLocked はカーソル位置のデバイスをBinderに渡す（ロック済み前提）
//
// 内蔵以外のデバイスはBinderに渡さずErrUnsupportedSourceを返す。
// いずれの失敗でもカーソルは対象デバイスを指したまま。
func (s *Selector) activateLocked(ctx context.Context) (Selection, error) {
	index := s.cursor.Index()
	dev := s.devices[index]
	logger := s.logger.With("device_id", dev.ID, "display_name", dev.DisplayName, "index", index)

	if dev.Source != SourceBuiltIn {
		logger.Info("camera requires special setup", "source", dev.Source)
		return s.selectionLocked(dev, index), fmt.Errorf("%s: %w", dev.DisplayName, ErrUnsupportedSource)
	}

	if err := s.binder.Bind(ctx, dev.ID, dev.Facing); err != nil {
		logger.Error("error starting camera", "error", err)
		return s.selectionLocked(dev, index), &ActivationError{DeviceID: dev.ID, Err: err}
	}

	s.activeID = dev.ID
	logger.Info("switched camera")
	return s.selectionLocked(dev, index), nil
}

func (s *Selector) selectionLocked(dev ClassifiedDevice, index int) Selection {
	return Selection{ClassifiedDevice: dev, Index: index, ActiveID: s.activeID}
}
