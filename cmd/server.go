// Package main はcamswitchサーバーコマンドの実装です
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"camswitch/internal/app"
	"camswitch/internal/config"
	"camswitch/internal/logging"
)

// version はビルド時に -ldflags で上書きする
var version = "dev"

func main() {
	// コマンドラインオプション
	var (
		configPath = flag.String("config", "", "設定ファイルのパス (デフォルト: $CAMSWITCH_CONFIG)")
		host       = flag.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port       = flag.Int("port", 0, "サーバーのポート (デフォルト: 8080)")
		help       = flag.Bool("help", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("camswitch")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// 設定を読み込む
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("設定の検証に失敗しました: %v", err)
	}

	logger := logging.New(cfg.Logging, version)

	a, err := app.New(cfg, logger)
	if err != nil {
		log.Fatalf("初期化に失敗しました: %v", err)
	}
	defer a.Close()

	// サーバーを起動
	logger.Info("starting camswitch", "address", cfg.ServerAddress(), "binder", cfg.Binder.Kind)
	if err := a.Run(context.Background()); err != nil {
		_ = a.Close()
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
