package camera

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func builtinDevice(id string, facing Facing, name string) ClassifiedDevice {
	return ClassifiedDevice{
		DeviceRecord: DeviceRecord{ID: id, Source: SourceBuiltIn, Facing: facing},
		DefaultName:  name,
		DisplayName:  name,
	}
}

func usbDevice(id, name string) ClassifiedDevice {
	return ClassifiedDevice{
		DeviceRecord: DeviceRecord{ID: id, Source: SourceUSB, Facing: FacingUnknown},
		DefaultName:  name,
		DisplayName:  name,
	}
}

// scenarioCatalog は Main, Front, Wide の3台
func scenarioCatalog() []ClassifiedDevice {
	return []ClassifiedDevice{
		builtinDevice("0", FacingBack, "Main Camera"),
		builtinDevice("1", FacingFront, "Front Camera"),
		builtinDevice("2", FacingBack, "Wide Camera"),
	}
}

func newTestSelector(devices []ClassifiedDevice) (*Selector, *MockBinder) {
	binder := NewMockBinder()
	s := NewSelector(binder, WithLogger(quietLogger()))
	s.SetCatalog(devices)
	return s, binder
}

func TestSelector_NextWraps(t *testing.T) {
	s, binder := newTestSelector(scenarioCatalog())
	ctx := context.Background()

	var got []string
	for i := 0; i < 4; i++ {
		dev, err := s.SelectNext(ctx)
		if err != nil {
			t.Fatalf("SelectNext failed: %v", err)
		}
		got = append(got, dev.DisplayName)
	}

	want := []string{"Front Camera", "Wide Camera", "Main Camera", "Front Camera"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("順序が違います (-want +got):\n%s", diff)
	}

	wantCalls := []BindCall{
		{DeviceID: "1", Facing: FacingFront},
		{DeviceID: "2", Facing: FacingBack},
		{DeviceID: "0", Facing: FacingBack},
		{DeviceID: "1", Facing: FacingFront},
	}
	if diff := cmp.Diff(wantCalls, binder.Calls()); diff != "" {
		t.Errorf("Binderの呼び出しが違います (-want +got):\n%s", diff)
	}
}

func TestSelector_PreviousWraps(t *testing.T) {
	s, _ := newTestSelector(scenarioCatalog())

	dev, err := s.SelectPrevious(context.Background())
	if err != nil {
		t.Fatalf("SelectPrevious failed: %v", err)
	}
	if dev.ID != "2" {
		t.Errorf("先頭から前は末尾: got %s", dev.ID)
	}
}

func TestSelector_NextThenPreviousRoundTrip(t *testing.T) {
	ctx := context.Background()
	for start := 0; start < 3; start++ {
		s, _ := newTestSelector(scenarioCatalog())
		if _, err := s.SelectByIndex(ctx, start); err != nil {
			t.Fatalf("SelectByIndex failed: %v", err)
		}
		_, _ = s.SelectNext(ctx)
		_, _ = s.SelectPrevious(ctx)

		if idx, _ := s.Index(); idx != start {
			t.Errorf("start %d: got %d", start, idx)
		}
	}
}

func TestSelector_SingleDevice(t *testing.T) {
	s, _ := newTestSelector(scenarioCatalog()[:1])
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		dev, err := s.SelectNext(ctx)
		if err != nil || dev.ID != "0" {
			t.Fatalf("1台なら常に同じデバイス: %v %v", dev.ID, err)
		}
	}
}

func TestSelector_EmptyCatalog(t *testing.T) {
	s, binder := newTestSelector(nil)
	ctx := context.Background()

	if _, err := s.SelectNext(ctx); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("Expected ErrEmptyCatalog, got %v", err)
	}
	if _, err := s.SelectPrevious(ctx); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("Expected ErrEmptyCatalog, got %v", err)
	}
	if _, err := s.Reactivate(ctx); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("Expected ErrEmptyCatalog, got %v", err)
	}
	if _, ok := s.Current(); ok {
		t.Error("空のカタログにCurrentはない")
	}
	if len(binder.Calls()) != 0 {
		t.Error("Binderが呼ばれました")
	}
}

func TestSelector_SelectByIDNotFoundKeepsCursor(t *testing.T) {
	s, binder := newTestSelector(scenarioCatalog())
	ctx := context.Background()

	if _, err := s.SelectByID(ctx, "2"); err != nil {
		t.Fatalf("SelectByID failed: %v", err)
	}

	_, err := s.SelectByID(ctx, "usb_7")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	current, _ := s.Current()
	if current.ID != "2" {
		t.Errorf("カーソルが動きました: %s", current.ID)
	}
	if len(binder.Calls()) != 1 {
		t.Errorf("Expected 1 bind call, got %d", len(binder.Calls()))
	}
}

func TestSelector_SelectByName(t *testing.T) {
	s, _ := newTestSelector(scenarioCatalog())
	ctx := context.Background()

	dev, err := s.SelectByName(ctx, "Wide")
	if err != nil || dev.ID != "2" {
		t.Fatalf("SelectByName(Wide): %v %v", dev.ID, err)
	}

	// 大文字小文字は区別する
	if _, err := s.SelectByName(ctx, "wide"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	// 最初に一致したもの
	dev, err = s.SelectByName(ctx, "Camera")
	if err != nil || dev.ID != "0" {
		t.Errorf("SelectByName(Camera): %v %v", dev.ID, err)
	}
}

func TestSelector_SelectByIndex(t *testing.T) {
	s, _ := newTestSelector(scenarioCatalog())
	ctx := context.Background()

	if _, err := s.SelectByIndex(ctx, 1); err != nil {
		t.Fatalf("SelectByIndex failed: %v", err)
	}
	for _, i := range []int{-1, 3, 10} {
		if _, err := s.SelectByIndex(ctx, i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("index %d: expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
	if idx, _ := s.Index(); idx != 1 {
		t.Errorf("範囲外でカーソルが動きました: %d", idx)
	}
}

func TestSelector_UnsupportedSourceMovesCursorWithoutBinding(t *testing.T) {
	devices := append(scenarioCatalog(), usbDevice("usb_0", "USB Camera 1"))
	s, binder := newTestSelector(devices)
	ctx := context.Background()

	if _, err := s.SelectByIndex(ctx, 0); err != nil {
		t.Fatalf("SelectByIndex failed: %v", err)
	}

	dev, err := s.SelectByID(ctx, "usb_0")
	if !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("Expected ErrUnsupportedSource, got %v", err)
	}
	if dev.ID != "usb_0" {
		t.Errorf("選択されたデバイスが返されていません: %s", dev.ID)
	}
	if idx, _ := s.Index(); idx != 3 {
		t.Errorf("カーソルが移動していません: %d", idx)
	}
	if calls := binder.Calls(); len(calls) != 1 || calls[0].DeviceID != "0" {
		t.Errorf("USBデバイスでBinderが呼ばれました: %+v", calls)
	}
	if active, _ := s.ActiveID(); active != "0" {
		t.Errorf("アクティブなデバイスが変わりました: %s", active)
	}
}

func TestSelector_ActivationFailureKeepsCursor(t *testing.T) {
	s, binder := newTestSelector(scenarioCatalog())
	ctx := context.Background()
	cause := errors.New("camera in use")
	binder.SetShouldFail("1", cause)

	if _, err := s.SelectByIndex(ctx, 0); err != nil {
		t.Fatalf("SelectByIndex failed: %v", err)
	}

	dev, err := s.SelectNext(ctx)
	if !errors.Is(err, ErrActivationFailed) || !errors.Is(err, cause) {
		t.Fatalf("Expected ErrActivationFailed wrapping cause, got %v", err)
	}
	var actErr *ActivationError
	if !errors.As(err, &actErr) || actErr.DeviceID != "1" {
		t.Errorf("ActivationErrorのIDが違います: %v", err)
	}
	if dev.ID != "1" {
		t.Errorf("失敗したデバイスが返されていません: %s", dev.ID)
	}
	if idx, _ := s.Index(); idx != 1 {
		t.Errorf("カーソルは失敗したデバイスを指したまま: %d", idx)
	}
	if active, _ := s.ActiveID(); active != "0" {
		t.Errorf("アクティブなデバイスが変わりました: %s", active)
	}

	// もう一度押せば次へ進める
	binder.SetShouldFail("1", nil)
	if dev, err := s.SelectNext(ctx); err != nil || dev.ID != "2" {
		t.Errorf("SelectNext after failure: %v %v", dev.ID, err)
	}
}

func TestSelector_SetCatalogShrinkResetsCursor(t *testing.T) {
	s, binder := newTestSelector(scenarioCatalog())
	ctx := context.Background()

	if _, err := s.SelectByIndex(ctx, 2); err != nil {
		t.Fatalf("SelectByIndex failed: %v", err)
	}
	calls := len(binder.Calls())

	s.SetCatalog(scenarioCatalog()[:2])

	if idx, _ := s.Index(); idx != 0 {
		t.Errorf("縮小後のカーソル: got %d, want 0", idx)
	}
	if len(binder.Calls()) != calls {
		t.Error("SetCatalogでBinderが呼ばれました")
	}
}

func TestSelector_SetCatalogKeepsIndexInRange(t *testing.T) {
	s, _ := newTestSelector(scenarioCatalog())
	ctx := context.Background()

	if _, err := s.SelectByIndex(ctx, 1); err != nil {
		t.Fatalf("SelectByIndex failed: %v", err)
	}

	// IDではなく位置を保つ
	s.SetCatalog([]ClassifiedDevice{
		builtinDevice("9", FacingBack, "Main Camera"),
		builtinDevice("8", FacingBack, "Wide Camera"),
	})
	current, _ := s.Current()
	if current.ID != "8" {
		t.Errorf("位置が保たれていません: %s", current.ID)
	}
}

func TestSelector_SetCatalogCopiesInput(t *testing.T) {
	devices := scenarioCatalog()
	s, _ := newTestSelector(devices)

	devices[0].DisplayName = "changed"
	if got := s.Devices()[0].DisplayName; got != "Main Camera" {
		t.Errorf("呼び出し側の変更が反映されました: %s", got)
	}
}

func TestSelector_NilBinder(t *testing.T) {
	s := NewSelector(nil, WithLogger(quietLogger()))
	s.SetCatalog(scenarioCatalog())

	if _, err := s.SelectNext(context.Background()); err != nil {
		t.Errorf("nilのBinderは常に成功: %v", err)
	}
}

func TestSelector_ConcurrentSelection(t *testing.T) {
	s, binder := newTestSelector(scenarioCatalog())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = s.SelectNext(ctx)
			} else {
				_, _ = s.SelectPrevious(ctx)
			}
		}(i)
	}
	wg.Wait()

	// 15回進んで15回戻る
	if idx, _ := s.Index(); idx != 0 {
		t.Errorf("Expected cursor 0, got %d", idx)
	}
	if len(binder.Calls()) != 30 {
		t.Errorf("Expected 30 bind calls, got %d", len(binder.Calls()))
	}
}

func TestSelector_SelectionCarriesIndex(t *testing.T) {
	devices := append(scenarioCatalog(), usbDevice("usb_4", "USB Camera 1"))
	s, _ := newTestSelector(devices)
	ctx := context.Background()

	sel, err := s.SelectByID(ctx, "2")
	if err != nil {
		t.Fatalf("SelectByID failed: %v", err)
	}
	if sel.Index != 2 || sel.ID != "2" || !sel.Active() {
		t.Errorf("選択結果が違います: %+v", sel)
	}

	// 内蔵以外は位置は返すが接続中にはならない
	sel, err = s.SelectNext(ctx)
	if !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("Expected ErrUnsupportedSource, got %v", err)
	}
	if sel.Index != 3 || sel.ID != "usb_4" || sel.Active() {
		t.Errorf("選択結果が違います: %+v", sel)
	}
	if sel.ActiveID != "2" {
		t.Errorf("直前の接続が保たれていません: %s", sel.ActiveID)
	}

	// 見つからない場合は空
	sel, err = s.SelectByIndex(ctx, 9)
	if !errors.Is(err, ErrIndexOutOfRange) || sel.ID != "" {
		t.Errorf("範囲外: %+v %v", sel, err)
	}
}

func TestSelector_PublishAndView(t *testing.T) {
	s, _ := newTestSelector(nil)

	snap := &Snapshot{PassID: "pass-1", Devices: scenarioCatalog()}
	s.Publish(snap)

	view := s.View()
	if view.Snapshot != snap {
		t.Errorf("Snapshotが反映されていません: %+v", view.Snapshot)
	}
	if diff := cmp.Diff(snap.Devices, view.Devices); diff != "" {
		t.Errorf("一覧が違います (-want +got):\n%s", diff)
	}
	if dev, ok := view.Current(); !ok || dev.ID != "0" {
		t.Errorf("Current: %+v %v", dev, ok)
	}

	// 直接置き換えた場合は検出パスを持たない
	s.SetCatalog(scenarioCatalog()[:1])
	if view := s.View(); view.Snapshot != nil || len(view.Devices) != 1 {
		t.Errorf("SetCatalog後の状態: %+v", view)
	}

	s.Publish(nil)
	if _, ok := s.View().Current(); ok {
		t.Error("空のカタログでCurrentが成功しました")
	}
}

func TestSelector_ActiveClearedWhenDeviceDisappears(t *testing.T) {
	s, _ := newTestSelector(scenarioCatalog())
	ctx := context.Background()

	if _, err := s.SelectByID(ctx, "2"); err != nil {
		t.Fatalf("SelectByID failed: %v", err)
	}

	// 接続中のデバイスが残っていれば保つ
	s.SetCatalog([]ClassifiedDevice{
		builtinDevice("2", FacingBack, "Wide Camera"),
		builtinDevice("0", FacingBack, "Main Camera"),
	})
	if id, ok := s.ActiveID(); !ok || id != "2" {
		t.Errorf("接続中のIDが消えました: %q", id)
	}

	// 消えたら空に戻す
	s.SetCatalog(scenarioCatalog()[:2])
	if id, ok := s.ActiveID(); ok {
		t.Errorf("消えたデバイスが接続中のままです: %q", id)
	}
	if s.View().ActiveID != "" {
		t.Error("Viewに古い接続が残っています")
	}
}
