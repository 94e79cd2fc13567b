// cmd/worker-manager/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/akkash/bizsearch-new-sub002/internal/app"
	"github.com/akkash/bizsearch-new-sub002/internal/common/config"
	"github.com/akkash/bizsearch-new-sub002/internal/common/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	defer zapLog.Sync()

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, zapLog, app.Options{})
	if err != nil {
		zapLog.Fatal("startup failed", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			zapLog.Error("Error closing backends", zap.Error(err))
		}
	}()

	if cfg.Camunda.Enabled {
		client, err := a.ConnectZeebe(ctx)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		n := a.StartWorkers(client.GetClient())
		zapLog.Info("workers registered", zap.Int("count", n))
	} else {
		zapLog.Info("camunda disabled, serving HTTP API only")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.HTTPServer().Run(ctx, cfg.HTTP.Addr)
	}()

	serverDone := false
	select {
	case <-ctx.Done():
		zapLog.Info("Shutdown signal received, stopping workers...")
	case err := <-serverErr:
		serverDone = true
		if err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	a.StopWorkers(shutdownCtx)

	if !serverDone {
		select {
		case <-serverErr:
		case <-shutdownCtx.Done():
		}
	}

	zapLog.Info("Worker manager stopped gracefully")
}
