package main

import (
	"context"
	"log"

	"camswitch/internal/app"
	"camswitch/internal/config"
	"camswitch/internal/logging"
)

// version はビルド時に -ldflags で上書きする
var version = "dev"

func main() {
	// 設定を読み込む（CAMSWITCH_CONFIG が設定されていればそのファイル）
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	logger := logging.New(cfg.Logging, version)

	a, err := app.New(cfg, logger)
	if err != nil {
		log.Fatalf("初期化に失敗しました: %v", err)
	}
	defer a.Close()

	// サーバーを起動
	if err := a.Run(context.Background()); err != nil {
		logger.Error("server stopped with error", "error", err)
		_ = a.Close()
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
