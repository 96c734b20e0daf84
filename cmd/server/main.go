package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stocklinker/internal/app/di"
	"stocklinker/internal/app/router"
	"stocklinker/internal/platform/config"
	"stocklinker/internal/platform/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	logger.Setup(cfg.Log)

	// SIGINT/SIGTERM でキャンセルされ、実行中の株価取得も打ち切られる
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := di.OpenInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer infra.Close()

	app, err := di.Build(ctx, cfg, infra)
	if err != nil {
		return err
	}
	app.Start(ctx)

	// API_TOKEN_SECRETチェック（公開環境での注意喚起）
	if cfg.TokenSecret == "" {
		slog.Warn("API_TOKEN_SECRET is not set. The API is open to anyone who can reach it.")
	}

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: router.NewRouter(app.Handlers, router.Options{
			TokenSecret:      cfg.TokenSecret,
			CORSAllowOrigins: cfg.CORSAllowOrigins,
			Catalog:          app.Catalog,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.HTTPAddr, "store", cfg.StoreBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	stop()
	app.Wait()
	return nil
}
