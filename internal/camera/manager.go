package camera

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Switcher はCatalogとSelectorを束ね、検出からアクティブ化までを管理する
type Switcher struct {
	catalog  *Catalog
	selector *Selector
	logger   *slog.Logger

	// 検出パスを直列化し、古いパスが新しいパスを上書きしないようにする
	refreshMu sync.Mutex

	// 制御用
	mu           sync.Mutex
	stopCh       chan struct{}
	wg           sync.WaitGroup
	running      bool
	scanInterval time.Duration
}

// NewSwitcher は新しいSwitcherを作成する
func NewSwitcher(catalog *Catalog, selector *Selector, opts ...Option) *Switcher {
	o := applyOptions(opts)
	return &Switcher{
		catalog:      catalog,
		selector:     selector,
		logger:       o.logger.With("component", "switcher"),
		scanInterval: o.scanInterval,
	}
}

// Start は初回の検出を行い、先頭のデバイスを接続する
//
// カメラが見つからない、または接続に失敗してもエラーにはしない（ログのみ）。
// 再検出間隔が設定されていればバックグラウンドスキャンを開始する。
func (s *Switcher) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("switcher は既に開始されています")
	}

	snap, err := s.Refresh(ctx)
	switch {
	case errors.Is(err, ErrEmptyCatalog):
		s.logger.Warn("no cameras found")
	case err != nil:
		return fmt.Errorf("初期スキャンに失敗: %w", err)
	default:
		if _, err := s.selector.Reactivate(ctx); err != nil {
			s.logger.Warn("initial activation failed", "pass_id", snap.PassID, "error", err)
		}
	}

	s.stopCh = make(chan struct{})
	s.running = true

	if s.scanInterval > 0 {
		s.wg.Add(1)
		go s.backgroundScan(ctx, s.stopCh)
	}

	return nil
}

// Stop はバックグラウンドスキャンを停止する
func (s *Switcher) Stop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	close(s.stopCh)
	s.wg.Wait()
	s.running = false

	return nil
}

// Refresh は検出パスを実行し、結果をSelectorに反映する
//
// デバイスが0台ならSnapshotと共にErrEmptyCatalogを返す。
func (s *Switcher) Refresh(ctx context.Context) (*Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	snap, err := s.catalog.Discover(ctx)
	if err != nil {
		return nil, err
	}

	s.selector.Publish(snap)

	if snap.Empty() {
		return snap, ErrEmptyCatalog
	}
	return snap, nil
}

// Rename は表示名を保存し、再検出して反映する
func (s *Switcher) Rename(ctx context.Context, id, name string) (*Snapshot, error) {
	if _, err := s.catalog.SaveName(ctx, id, name); err != nil {
		return nil, err
	}
	return s.Refresh(ctx)
}

// RemoveName は表示名を既定に戻し、再検出して反映する
func (s *Switcher) RemoveName(ctx context.Context, id string) (*Snapshot, error) {
	if err := s.catalog.RemoveName(ctx, id); err != nil {
		return nil, err
	}
	return s.Refresh(ctx)
}

// ResetNames は全ての表示名を既定に戻し、再検出して反映する
func (s *Switcher) ResetNames(ctx context.Context) (*Snapshot, error) {
	if err := s.catalog.ResetNames(ctx); err != nil {
		return nil, err
	}
	return s.Refresh(ctx)
}

// Next は次のデバイスに切り替える
func (s *Switcher) Next(ctx context.Context) (Selection, error) {
	return s.selector.SelectNext(ctx)
}

// Previous は前のデバイスに切り替える
func (s *Switcher) Previous(ctx context.Context) (Selection, error) {
	return s.selector.SelectPrevious(ctx)
}

// SelectByID はIDでデバイスを切り替える
func (s *Switcher) SelectByID(ctx context.Context, id string) (Selection, error) {
	return s.selector.SelectByID(ctx, id)
}

// SelectByName は表示名の部分一致でデバイスを切り替える
func (s *Switcher) SelectByName(ctx context.Context, substr string) (Selection, error) {
	return s.selector.SelectByName(ctx, substr)
}

// SelectByIndex は位置でデバイスを切り替える
func (s *Switcher) SelectByIndex(ctx context.Context, i int) (Selection, error) {
	return s.selector.SelectByIndex(ctx, i)
}

// Current はカーソル位置のデバイスを返す
func (s *Switcher) Current() (ClassifiedDevice, bool) {
	return s.selector.Current()
}

// View は検出パスとカーソルの状態を一貫した組で返す
func (s *Switcher) View() View {
	return s.selector.View()
}

// Catalog は内部のCatalogを返す
func (s *Switcher) Catalog() *Catalog {
	return s.catalog
}

// Selector は内部のSelectorを返す
func (s *Switcher) Selector() *Selector {
	return s.selector
}

// backgroundScan は定期的に再検出を行う。アクティブ化はしない
func (s *Switcher) backgroundScan(ctx context.Context, stopCh <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrEmptyCatalog) {
				s.logger.Warn("background scan failed", "error", err)
			}
		}
	}
}
