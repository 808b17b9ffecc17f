package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"stock-monitor/internal/logger"
	"stock-monitor/internal/scheduler"
	"stock-monitor/internal/server"
	"stock-monitor/internal/snapshot"
	"stock-monitor/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		log.Fatal(err)
	}

	compressOldLogs(ctx)

	provider := initializeProvider(ctx, cfg)

	eng, err := initializeEngine(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	persister := snapshot.NewWriter(cfg.HistoryDir, provider)
	sched := scheduler.New(cfg, eng, provider, persister)

	srv := server.New(cfg.ServerAddr, eng)
	srv.Start(ctx)

	logger.Info(ctx, "Monitor started", "mode", cfg.Mode, "addr", cfg.ServerAddr)
	if err := sched.Run(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Scheduler exited with error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn(shutdownCtx, "Display server shutdown failed", "error", err)
	}
	if err := trace.Shutdown(shutdownCtx); err != nil {
		logger.Warn(shutdownCtx, "Tracer shutdown failed", "error", err)
	}
	logger.Info(shutdownCtx, "Monitor stopped")
}
