// Package logging はアプリケーション共通の構造化ロガーを提供する
//
// log/slog をラップし、出力形式・レベル・既定の属性（service, version）を設定から決める。
// 各コンポーネントには With("component", ...) で派生させたロガーを渡す。
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"camswitch/internal/config"
)

// serviceName は全てのログに付与するサービス名
const serviceName = "camswitch"

// Logger はslog.Loggerのラッパー
//
// 全てのメソッドは並行に呼び出してよい。
type Logger struct {
	*slog.Logger
}

// New は設定からLoggerを作成する
func New(cfg config.LoggingConfig, version string) *Logger {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}
	return newWithWriter(cfg, version, output)
}

func newWithWriter(cfg config.LoggingConfig, version string, output io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", serviceName),
		slog.String("version", version),
	})

	return &Logger{Logger: slog.New(handler)}
}

// parseLevel は文字列のログレベルをslog.Levelに変換する
// 不明な値はinfoとして扱う
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With は属性を追加した新しいLoggerを返す
//
//	camLogger := logger.With("component", "camera")
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Component はcomponent属性付きの*slog.Loggerを返す
func (l *Logger) Component(name string) *slog.Logger {
	return l.Logger.With("component", name)
}

// Default は設定の読み込み前に使うロガーを返す（stdout, JSON, info）
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}
