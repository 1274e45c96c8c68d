package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"camswitch/internal/camera"
	"camswitch/internal/config"
	"camswitch/internal/generated"
)

// shutdownTimeout はグレースフルシャットダウンの最大待ち時間
const shutdownTimeout = 5 * time.Second

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	switcher   *camera.Switcher
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

// New は新しいServerインスタンスを作成する
//
// ルートは生成されたServerInterfaceから登録し、リクエストはOpenAPI定義で検証する。
func New(cfg *config.Config, switcher *camera.Switcher, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	swagger, err := generated.GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("OpenAPI定義の読み込みに失敗: %w", err)
	}

	h := NewHandler(cfg, switcher)
	validator, err := requestValidator(swagger, h.invalidRequest)
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger), validator)

	s := &Server{
		config:   cfg,
		switcher: switcher,
		logger:   logger,
		engine:   engine,
		httpServer: &http.Server{
			Addr:         cfg.ServerAddress(),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
	s.setupRoutes(h)
	return s, nil
}

// Handler はルーティング済みのhttp.Handlerを返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// setupRoutes は生成されたServerInterfaceのルートを登録する
func (s *Server) setupRoutes(h *Handler) {
	generated.RegisterHandlersWithOptions(s.engine, h, generated.GinServerOptions{
		ErrorHandler: h.invalidParameter,
	})
}

// requestLogger はリクエストを1行ずつ記録するミドルウェア
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Start はサーバーを起動する
//
// コンテキストのキャンセルかSIGINT/SIGTERMでグレースフルにシャットダウンする。
func (s *Server) Start(ctx context.Context) error {
	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		s.logger.Info("starting http server", "address", s.config.ServerAddress())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			shutdownCh <- fmt.Errorf("サーバーの起動に失敗: %w", err)
		}
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled")
	case sig := <-sigCh:
		s.logger.Info("signal received", "signal", sig.String())
	case err := <-shutdownCh:
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown() error {
	s.logger.Info("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	s.logger.Info("http server stopped")
	return nil
}
