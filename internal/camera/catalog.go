package camera

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Catalog は全ソースを検出し、分類と上書き名の適用を行う
//
// Discoverは毎回新しいSnapshotを作る。以前のSnapshotを書き換えることはない。
type Catalog struct {
	sources []DeviceSource
	names   NameStore
	logger  *slog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	latest *Snapshot
}

// NewCatalog は新しいCatalogを作成する
//
// sourcesは種類ごと（BuiltIn → USB → Bluetooth）に並べ替えられる。同じ種類の
// ソースは渡された順序を保つ。
func NewCatalog(names NameStore, sources []DeviceSource, opts ...Option) *Catalog {
	o := applyOptions(opts)

	ordered := make([]DeviceSource, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return sourceRank(ordered[i].Kind()) < sourceRank(ordered[j].Kind())
	})

	return &Catalog{
		sources: ordered,
		names:   names,
		logger:  o.logger.With("component", "catalog"),
		now:     o.now,
	}
}

// Discover は1回の検出パスを実行する
//
// ソースへの問い合わせは並行に行い、全て完了してからSnapshotを組み立てる。
// 失敗したソースはWarningsに記録され、他のソースの結果はそのまま使われる。
// デバイスが0台でもエラーにはしない（Snapshot.Emptyで判定する）。
func (c *Catalog) Discover(ctx context.Context) (*Snapshot, error) {
	results := make([][]DeviceRecord, len(c.sources))
	errs := make([]error, len(c.sources))

	var g errgroup.Group
	for i, src := range c.sources {
		i, src := i, src
		g.Go(func() error {
			results[i], errs[i] = src.Enumerate(ctx)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("検出パスが中断されました: %w", err)
	}

	snap := &Snapshot{
		PassID:       uuid.NewString(),
		DiscoveredAt: c.now(),
	}
	logger := c.logger.With("pass_id", snap.PassID)

	classifier := NewClassifier()
	seen := make(map[string]struct{})

	for i, src := range c.sources {
		kind := src.Kind()
		if errs[i] != nil {
			serr := &SourceError{Source: kind, Err: errs[i]}
			snap.Warnings = append(snap.Warnings, serr)
			logger.Warn("source unavailable", "source", kind, "error", errs[i])
			continue
		}

		for _, rec := range results[i] {
			rec.Source = kind
			if rec.ID == "" {
				logger.Debug("skipping record without id", "source", kind, "label", rec.Label)
				continue
			}
			if kind == SourceBluetooth && !IsCameraName(rec.Label) {
				continue
			}
			if _, dup := seen[rec.ID]; dup {
				logger.Warn("duplicate device id", "source", kind, "device_id", rec.ID)
				continue
			}
			seen[rec.ID] = struct{}{}

			dev := classifier.Classify(rec)
			name, ok, err := c.names.Lookup(ctx, rec.ID)
			switch {
			case err != nil:
				logger.Warn("name lookup failed", "device_id", rec.ID, "error", err)
			case ok && name != "":
				dev.DisplayName = name
			}

			logger.Debug("found camera",
				"device_id", dev.ID,
				"source", dev.Source,
				"default_name", dev.DefaultName,
				"display_name", dev.DisplayName,
			)
			snap.Devices = append(snap.Devices, dev)
		}
	}

	c.mu.Lock()
	c.latest = snap
	c.mu.Unlock()

	logger.Info("discovery pass complete", "devices", len(snap.Devices), "warnings", len(snap.Warnings))
	return snap, nil
}

// Latest は最後に完了したSnapshotを返す。未実行ならnil
func (c *Catalog) Latest() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}

// SaveName はユーザーが入力した表示名を保存する
//
// 前後の空白は除去される。空、または既定名と同じ場合は上書きを削除する。
// 実際に上書きとして保存した場合はtrueを返す。
func (c *Catalog) SaveName(ctx context.Context, id, name string) (bool, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || trimmed == c.defaultNameFor(id) {
		if err := c.names.Remove(ctx, id); err != nil {
			return false, fmt.Errorf("表示名の削除に失敗: %w", err)
		}
		return false, nil
	}

	if err := c.names.Set(ctx, id, trimmed); err != nil {
		return false, fmt.Errorf("表示名の保存に失敗: %w", err)
	}
	return true, nil
}

// RemoveName は上書き名を削除して既定名に戻す
func (c *Catalog) RemoveName(ctx context.Context, id string) error {
	if err := c.names.Remove(ctx, id); err != nil {
		return fmt.Errorf("表示名の削除に失敗: %w", err)
	}
	return nil
}

// ResetNames は全ての上書き名を削除する
func (c *Catalog) ResetNames(ctx context.Context) error {
	if err := c.names.Clear(ctx); err != nil {
		return fmt.Errorf("表示名のリセットに失敗: %w", err)
	}
	return nil
}

// NameEntry は名前設定画面の1行
type NameEntry struct {
	ID          string `json:"id"`
	DefaultName string `json:"default_name"`
	CustomName  string `json:"custom_name,omitempty"` // 上書きが無ければ空
}

// SameDevice はIDだけで同一性を判定する
func (e NameEntry) SameDevice(other NameEntry) bool {
	return e.ID == other.ID
}

// NameEntries は最新のSnapshotに対する名前設定の一覧を返す
//
// Snapshotが空の場合は、保存済みの上書き名を一覧にして管理できるようにする。
func (c *Catalog) NameEntries(ctx context.Context) ([]NameEntry, error) {
	snap := c.Latest()
	if !snap.Empty() {
		entries := make([]NameEntry, 0, len(snap.Devices))
		for _, dev := range snap.Devices {
			entry := NameEntry{ID: dev.ID, DefaultName: dev.DefaultName}
			if dev.Overridden() {
				entry.CustomName = dev.DisplayName
			}
			entries = append(entries, entry)
		}
		return entries, nil
	}

	overrides, err := c.names.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("保存済み表示名の取得に失敗: %w", err)
	}

	ids := make([]string, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var entries []NameEntry
	for _, id := range ids {
		entries = appendUniqueEntry(entries, NameEntry{
			ID:          id,
			DefaultName: InferDefaultName(id),
			CustomName:  overrides[id],
		})
	}
	return entries, nil
}

func appendUniqueEntry(entries []NameEntry, entry NameEntry) []NameEntry {
	for _, e := range entries {
		if e.SameDevice(entry) {
			return entries
		}
	}
	return append(entries, entry)
}

// defaultNameFor は最新のSnapshotから既定名を探し、無ければIDから推定する
func (c *Catalog) defaultNameFor(id string) string {
	if snap := c.Latest(); snap != nil {
		for _, dev := range snap.Devices {
			if dev.ID == id {
				return dev.DefaultName
			}
		}
	}
	return InferDefaultName(id)
}

// sourceRank はカタログ内での並び順を返す
func sourceRank(s Source) int {
	switch s {
	case SourceBuiltIn:
		return 0
	case SourceUSB:
		return 1
	case SourceBluetooth:
		return 2
	default:
		return 3
	}
}
