package binder

import (
	"context"
	"fmt"
	"log/slog"

	"camswitch/internal/camera"
	"camswitch/internal/config"
)

// Binder は終了処理を持つcamera.Binder
type Binder interface {
	camera.Binder
	Close() error
}

// New は設定に応じたBinderを作成する
func New(cfg *config.Config, logger *slog.Logger) (Binder, error) {
	switch cfg.Binder.Kind {
	case config.BinderKindV4L2:
		return NewV4L2(cfg.LensDevices(), cfg.Binder.ProbeTimeout, logger), nil
	case config.BinderKindMQTT:
		return Connect(cfg.MQTT, logger)
	case config.BinderKindLog:
		return NewLog(logger), nil
	default:
		return nil, fmt.Errorf("未対応のbinder: %s", cfg.Binder.Kind)
	}
}

// Log はログを出力するだけのBinder
type Log struct {
	logger *slog.Logger
}

// NewLog は新しいLogを作成する
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

// Bind は接続要求をログに出して成功する
func (l *Log) Bind(ctx context.Context, deviceID string, facing camera.Facing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.logger.Info("bind requested", "device_id", deviceID, "facing", facing)
	return nil
}

// Close は何もしない
func (l *Log) Close() error {
	return nil
}
