package logger

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"DEBUG": slog.LevelDebug,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"ERROR": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("LOG_DETAILED", "true")

	cfg := LoadConfigFromEnv()
	if cfg.Level != "DEBUG" || cfg.Format != "text" || !cfg.DetailedLogging {
		t.Errorf("Unexpected config from env: %+v", cfg)
	}
}

func TestOperationTimerWithoutTracing(t *testing.T) {
	// Tracing not initialized: the timer must still be safe to use around
	// an operation, both on the success and the failure path.
	ctx := context.Background()

	timer := StartOperation(ctx, "snapshot.write", "date", "2025-03-03", "symbols", 2)
	if timer == nil {
		t.Fatal("Expected a timer")
	}
	if timer.GetContext() == nil {
		t.Fatal("Expected a usable context from the timer")
	}
	timer.End("bytes", 1024)

	timer = StartOperation(ctx, "snapshot.write", "date", "2025-03-03")
	timer.EndWithError(errors.New("disk full"))
}

func TestLoggingBeforeInitDoesNotPanic(t *testing.T) {
	ctx := context.Background()
	Debug(ctx, "debug message")
	Info(ctx, "info message", "key", "value")
	Warn(ctx, "warn message")
	ErrorWithErr(ctx, "error message", errors.New("boom"))
	Alert(ctx, "AAPL", "UP", 251.2, 250, "name", "Apple Inc")
}
