package camera

import (
	"log/slog"
	"time"
)

// Option はCatalog、Selector、Switcherの共通オプション
type Option func(*options)

type options struct {
	logger       *slog.Logger
	now          func() time.Time
	scanInterval time.Duration
}

// WithLogger はログ出力先を設定する
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithScanInterval はSwitcherのバックグラウンド再検出間隔を設定する。0以下で無効
func WithScanInterval(interval time.Duration) Option {
	return func(o *options) {
		o.scanInterval = interval
	}
}

// WithClock は時刻の取得元を差し替える（テスト用）
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
