package camera

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// memoryNames はテスト用のNameStore
type memoryNames struct {
	mu        sync.Mutex
	names     map[string]string
	lookupErr error
}

func newMemoryNames() *memoryNames {
	return &memoryNames{names: make(map[string]string)}
}

func (m *memoryNames) Lookup(_ context.Context, id string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookupErr != nil {
		return "", false, m.lookupErr
	}
	name, ok := m.names[id]
	return name, ok, nil
}

func (m *memoryNames) Set(_ context.Context, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[id] = name
	return nil
}

func (m *memoryNames) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.names, id)
	return nil
}

func (m *memoryNames) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = make(map[string]string)
	return nil
}

func (m *memoryNames) All(_ context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.names))
	for k, v := range m.names {
		out[k] = v
	}
	return out, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scenarioSources() (*MockSource, *MockSource, *MockSource) {
	builtin := NewMockSource(SourceBuiltIn,
		DeviceRecord{ID: "0", Facing: FacingBack},
		DeviceRecord{ID: "1", Facing: FacingFront},
		DeviceRecord{ID: "2", Facing: FacingBack},
	)
	usb := NewMockSource(SourceUSB, DeviceRecord{ID: "usb_0", Label: "HD Webcam"})
	bt := NewMockSource(SourceBluetooth, DeviceRecord{ID: "bt_AA", Label: "Action Camera"})
	return builtin, usb, bt
}

func displayNames(devices []ClassifiedDevice) []string {
	names := make([]string, 0, len(devices))
	for _, d := range devices {
		names = append(names, d.DisplayName)
	}
	return names
}

func TestCatalog_DiscoverOrdersBySource(t *testing.T) {
	builtin, usb, bt := scenarioSources()
	// 渡す順序に関わらず BuiltIn → USB → Bluetooth
	catalog := NewCatalog(newMemoryNames(), []DeviceSource{bt, usb, builtin}, WithLogger(quietLogger()))

	snap, err := catalog.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	want := []string{"Main Camera", "Front Camera", "Wide Camera", "USB Camera 1", "Bluetooth Camera 1"}
	if diff := cmp.Diff(want, displayNames(snap.Devices)); diff != "" {
		t.Errorf("表示名が違います (-want +got):\n%s", diff)
	}
	if snap.PassID == "" {
		t.Error("PassIDが設定されていません")
	}
	if catalog.Latest() != snap {
		t.Error("Latestが最新のSnapshotを返しません")
	}
}

func TestCatalog_SourceFailureIsIsolated(t *testing.T) {
	builtin, usb, bt := scenarioSources()
	usb.SetError(errors.New("permission denied"))
	catalog := NewCatalog(newMemoryNames(), []DeviceSource{builtin, usb, bt}, WithLogger(quietLogger()))

	snap, err := catalog.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if len(snap.Devices) != 4 {
		t.Fatalf("Expected 4 devices, got %d", len(snap.Devices))
	}
	if len(snap.Warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(snap.Warnings))
	}
	warning := snap.Warnings[0]
	if warning.Source != SourceUSB {
		t.Errorf("Expected usb warning, got %s", warning.Source)
	}
	if !errors.Is(warning, ErrSourceUnavailable) {
		t.Error("警告がErrSourceUnavailableになっていません")
	}
}

func TestCatalog_AppliesOverrides(t *testing.T) {
	builtin, usb, _ := scenarioSources()
	names := newMemoryNames()
	names.names["2"] = "Ultra"
	names.names["usb_0"] = "" // 空の上書きは無視される
	catalog := NewCatalog(names, []DeviceSource{builtin, usb}, WithLogger(quietLogger()))

	snap, err := catalog.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	want := []string{"Main Camera", "Front Camera", "Ultra", "USB Camera 1"}
	if diff := cmp.Diff(want, displayNames(snap.Devices)); diff != "" {
		t.Errorf("表示名が違います (-want +got):\n%s", diff)
	}
	if snap.Devices[2].DefaultName != "Wide Camera" {
		t.Errorf("既定名は上書きされない: got %s", snap.Devices[2].DefaultName)
	}
	if !snap.Devices[2].Overridden() || snap.Devices[0].Overridden() {
		t.Error("Overriddenの判定が違います")
	}
}

func TestCatalog_LookupFailureFallsBackToDefault(t *testing.T) {
	builtin, _, _ := scenarioSources()
	names := newMemoryNames()
	names.lookupErr = errors.New("disk I/O error")
	catalog := NewCatalog(names, []DeviceSource{builtin}, WithLogger(quietLogger()))

	snap, err := catalog.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if snap.Devices[0].DisplayName != "Main Camera" {
		t.Errorf("既定名に戻っていません: %s", snap.Devices[0].DisplayName)
	}
}

func TestCatalog_DropsDuplicatesAndInvalidRecords(t *testing.T) {
	builtin := NewMockSource(SourceBuiltIn,
		DeviceRecord{ID: "0", Facing: FacingBack},
		DeviceRecord{ID: "", Facing: FacingBack},
		DeviceRecord{ID: "0", Facing: FacingBack},
		DeviceRecord{ID: "2", Facing: FacingBack},
	)
	bt := NewMockSource(SourceBluetooth,
		DeviceRecord{ID: "bt_1", Label: "JBL Speaker"},
		DeviceRecord{ID: "bt_2", Label: "Pocket camera"},
	)
	catalog := NewCatalog(newMemoryNames(), []DeviceSource{builtin, bt}, WithLogger(quietLogger()))

	snap, err := catalog.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	// 重複は序数を消費しない
	want := []string{"Main Camera", "Wide Camera", "Bluetooth Camera 1"}
	if diff := cmp.Diff(want, displayNames(snap.Devices)); diff != "" {
		t.Errorf("表示名が違います (-want +got):\n%s", diff)
	}
}

func TestCatalog_ForcesSourceKind(t *testing.T) {
	usb := NewMockSource(SourceUSB, DeviceRecord{ID: "usb_0", Source: SourceBuiltIn, Facing: FacingBack})
	catalog := NewCatalog(newMemoryNames(), []DeviceSource{usb}, WithLogger(quietLogger()))

	snap, err := catalog.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if snap.Devices[0].Source != SourceUSB || snap.Devices[0].DisplayName != "USB Camera 1" {
		t.Errorf("ソースの種類が強制されていません: %+v", snap.Devices[0])
	}
}

func TestCatalog_EmptyAndCancelled(t *testing.T) {
	catalog := NewCatalog(newMemoryNames(), []DeviceSource{NewMockSource(SourceBuiltIn)}, WithLogger(quietLogger()))

	snap, err := catalog.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if !snap.Empty() {
		t.Error("空のSnapshotが期待されました")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := catalog.Discover(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if catalog.Latest() != snap {
		t.Error("中断された検出パスがSnapshotを置き換えました")
	}
}

func TestCatalog_UsesClock(t *testing.T) {
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	catalog := NewCatalog(newMemoryNames(), nil, WithLogger(quietLogger()), WithClock(func() time.Time { return fixed }))

	snap, err := catalog.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if !snap.DiscoveredAt.Equal(fixed) {
		t.Errorf("DiscoveredAt: got %v, want %v", snap.DiscoveredAt, fixed)
	}
}

func TestCatalog_SaveName(t *testing.T) {
	builtin, usb, _ := scenarioSources()
	names := newMemoryNames()
	catalog := NewCatalog(names, []DeviceSource{builtin, usb}, WithLogger(quietLogger()))
	ctx := context.Background()

	if _, err := catalog.Discover(ctx); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	tests := []struct {
		name       string
		id         string
		input      string
		wantStored bool
		wantValue  string
	}{
		{"前後の空白を除去", "1", "  Selfie  ", true, "Selfie"},
		{"空文字は削除", "1", "   ", false, ""},
		{"既定名と同じなら削除", "2", "Wide Camera", false, ""},
		{"USBの既定名と同じなら削除", "usb_0", "USB Camera 1", false, ""},
		{"カタログに無いIDは推定した既定名と比較", "usb_9", "USB Camera", false, ""},
		{"カタログに無いIDの上書き", "usb_9", "Spare", true, "Spare"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_ = names.Set(ctx, tt.id, "previous")

			stored, err := catalog.SaveName(ctx, tt.id, tt.input)
			if err != nil {
				t.Fatalf("SaveName failed: %v", err)
			}
			if stored != tt.wantStored {
				t.Errorf("stored: got %v, want %v", stored, tt.wantStored)
			}

			value, ok, _ := names.Lookup(ctx, tt.id)
			if ok != tt.wantStored || value != tt.wantValue {
				t.Errorf("保存値: got (%q, %v), want (%q, %v)", value, ok, tt.wantValue, tt.wantStored)
			}
		})
	}
}

func TestCatalog_NameEntries(t *testing.T) {
	builtin, _, _ := scenarioSources()
	names := newMemoryNames()
	names.names["1"] = "Selfie"
	catalog := NewCatalog(names, []DeviceSource{builtin}, WithLogger(quietLogger()))
	ctx := context.Background()

	if _, err := catalog.Discover(ctx); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	entries, err := catalog.NameEntries(ctx)
	if err != nil {
		t.Fatalf("NameEntries failed: %v", err)
	}
	want := []NameEntry{
		{ID: "0", DefaultName: "Main Camera"},
		{ID: "1", DefaultName: "Front Camera", CustomName: "Selfie"},
		{ID: "2", DefaultName: "Wide Camera"},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("一覧が違います (-want +got):\n%s", diff)
	}
}

func TestCatalog_NameEntriesWithoutCameras(t *testing.T) {
	names := newMemoryNames()
	names.names["usb_3"] = "Overhead"
	names.names["0"] = "Rear"
	catalog := NewCatalog(names, []DeviceSource{NewMockSource(SourceBuiltIn)}, WithLogger(quietLogger()))
	ctx := context.Background()

	if _, err := catalog.Discover(ctx); err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	entries, err := catalog.NameEntries(ctx)
	if err != nil {
		t.Fatalf("NameEntries failed: %v", err)
	}
	want := []NameEntry{
		{ID: "0", DefaultName: "Camera 0", CustomName: "Rear"},
		{ID: "usb_3", DefaultName: "USB Camera", CustomName: "Overhead"},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("一覧が違います (-want +got):\n%s", diff)
	}
}

func TestCatalog_ResetNames(t *testing.T) {
	names := newMemoryNames()
	names.names["0"] = "Rear"
	catalog := NewCatalog(names, nil, WithLogger(quietLogger()))

	if err := catalog.ResetNames(context.Background()); err != nil {
		t.Fatalf("ResetNames failed: %v", err)
	}
	if len(names.names) != 0 {
		t.Errorf("上書き名が残っています: %v", names.names)
	}
}

func TestNameEntry_SameDevice(t *testing.T) {
	a := NameEntry{ID: "0", DefaultName: "Main Camera"}
	b := NameEntry{ID: "0", DefaultName: "Other", CustomName: "x"}
	c := NameEntry{ID: "1", DefaultName: "Main Camera"}

	if !a.SameDevice(b) {
		t.Error("同じIDは同じデバイス")
	}
	if a.SameDevice(c) {
		t.Error("名前が同じでもIDが違えば別のデバイス")
	}
}
