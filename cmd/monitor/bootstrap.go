package main

import (
	"context"
	"fmt"
	"os"

	"stock-monitor/internal/alertlog"
	"stock-monitor/internal/engine"
	"stock-monitor/internal/interfaces"
	"stock-monitor/internal/logger"
	"stock-monitor/internal/provider/kite"
	"stock-monitor/internal/provider/providerobs"
	"stock-monitor/internal/provider/static"
	"stock-monitor/internal/store"
	"stock-monitor/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem loads environment variables and brings up the logger and
// tracer before anything else runs.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the monitor configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old alert journal files if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("MONITOR_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := alertlog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeProvider selects the market-data provider for the configured
// mode and wraps it with observability middleware.
func initializeProvider(ctx context.Context, cfg *store.Config) interfaces.QuoteProvider {
	var p interfaces.QuoteProvider
	if cfg.Mode == "LIVE" {
		p = kite.New(kite.Params{
			APIKey:      os.Getenv("KITE_API_KEY"),
			AccessToken: os.Getenv("KITE_ACCESS_TOKEN"),
			Exchange:    cfg.Exchange,
		})
		logger.Info(ctx, "Using LIVE quotes from Zerodha", "exchange", cfg.Exchange)
	} else {
		p = static.New()
		logger.Warn(ctx, "Running in DRY_RUN mode - quotes are simulated")
	}
	return providerobs.Wrap(p)
}

// initializeEngine builds the symbol-state engine from the holdings file.
// A missing or malformed holdings file at startup is fatal: there is no
// previous configuration to fall back to yet.
func initializeEngine(ctx context.Context, cfg *store.Config) (*engine.Engine, error) {
	h, err := store.LoadHoldings(cfg.HoldingsFile)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load holdings", err, "file", cfg.HoldingsFile)
		return nil, err
	}
	eng := engine.New()
	eng.ApplyConfig(h)
	logger.Info(ctx, "Holdings loaded", "file", cfg.HoldingsFile, "symbols", len(eng.ActiveSymbols()))
	return eng, nil
}
