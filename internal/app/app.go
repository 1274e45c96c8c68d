// Package app は設定から各コンポーネントを組み立て、サーバーを起動する
package app

import (
	"context"
	"fmt"

	"camswitch/internal/binder"
	"camswitch/internal/camera"
	"camswitch/internal/config"
	"camswitch/internal/logging"
	"camswitch/internal/server"
	"camswitch/internal/store"
)

// App は組み立て済みのコンポーネント
type App struct {
	Config   *config.Config
	Logger   *logging.Logger
	Switcher *camera.Switcher
	Server   *server.Server

	closers []func() error
}

// New は設定から App を組み立てる。カメラの検出はまだ行わない
func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	names, err := a.openStore()
	if err != nil {
		return nil, err
	}

	sources, err := buildSources(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	b, err := binder.New(cfg, logger.Component("binder"))
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("binderの作成に失敗: %w", err)
	}
	a.closers = append(a.closers, b.Close)

	camLogger := logger.Component("camera")
	catalog := camera.NewCatalog(names, sources, camera.WithLogger(camLogger))
	selector := camera.NewSelector(b, camera.WithLogger(camLogger))
	a.Switcher = camera.NewSwitcher(catalog, selector,
		camera.WithLogger(camLogger),
		camera.WithScanInterval(cfg.Camera.ScanInterval),
	)
	srv, err := server.New(cfg, a.Switcher, logger.Component("server"))
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Server = srv

	return a, nil
}

// Run は初回検出を行い、サーバーが停止するまでブロックする
func (a *App) Run(ctx context.Context) error {
	if err := a.Switcher.Start(ctx); err != nil {
		return fmt.Errorf("カメラの初期化に失敗: %w", err)
	}
	defer func() {
		_ = a.Switcher.Stop(context.Background())
	}()

	return a.Server.Start(ctx)
}

// Close は保持しているリソースを逆順に解放する
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

func (a *App) openStore() (camera.NameStore, error) {
	switch a.Config.Store.Driver {
	case config.StoreDriverMemory:
		return store.NewMemory(), nil
	case config.StoreDriverSQLite:
		s, err := store.OpenSQLite(store.Config{
			Path:        a.Config.Store.Path,
			WALMode:     a.Config.Store.WALMode,
			BusyTimeout: a.Config.Store.BusyTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("ストアのオープンに失敗: %w", err)
		}
		a.closers = append(a.closers, s.Close)
		return s, nil
	default:
		return nil, fmt.Errorf("未対応のストア: %s", a.Config.Store.Driver)
	}
}

// buildSources は有効なソースをファクトリーから作成する
func buildSources(cfg *config.Config) ([]camera.DeviceSource, error) {
	factory := camera.NewSourceFactory()

	lenses := cfg.LensRecords()
	exclude := make([]string, 0, len(lenses))
	for _, lens := range lenses {
		if lens.Device != "" {
			exclude = append(exclude, lens.Device)
		}
	}
	sourceCfg := camera.SourceConfig{Lenses: lenses, ExcludeDevices: exclude}

	enabled := map[camera.Source]bool{
		camera.SourceBuiltIn:   true,
		camera.SourceUSB:       cfg.Camera.USB,
		camera.SourceBluetooth: cfg.Camera.Bluetooth,
	}

	var sources []camera.DeviceSource
	for _, kind := range factory.SupportedKinds() {
		if !enabled[kind] {
			continue
		}
		src, err := factory.CreateSource(kind, sourceCfg)
		if err != nil {
			return nil, fmt.Errorf("%sソースの作成に失敗: %w", kind, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}
