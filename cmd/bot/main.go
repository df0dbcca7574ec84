package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"hirepulse/internal/app"
	"hirepulse/internal/config"
	"hirepulse/internal/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.App.LogJSON, cfg.App.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to bootstrap", zap.Error(err))
	}
	defer func() {
		if err := container.Close(); err != nil {
			zlog.Warn("cleanup error", zap.Error(err))
		}
	}()

	if err := container.Scheduler.Start(ctx); err != nil {
		zlog.Fatal("failed to start scheduler", zap.Error(err))
	}

	httpApp := app.NewHTTPApp(container)

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		zlog.Fatal("invalid HTTP port", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpApp.Fiber.Listen(addr)
	}()

	zlog.Info("hirepulse started",
		zap.String("addr", addr),
		zap.String("env", cfg.App.Environment),
	)

	select {
	case err := <-errCh:
		if err != nil {
			zlog.Fatal("server error", zap.Error(err))
		}
	case <-ctx.Done():
		container.Scheduler.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpApp.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
			zlog.Warn("shutdown error", zap.Error(err))
		}
	}
}
