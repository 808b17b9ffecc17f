// Package server exposes the latest display snapshot over HTTP as JSON so a
// terminal dashboard or browser widget can poll it. The server never blocks
// the sampling loop: it reads whatever snapshot the engine last published.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"stock-monitor/internal/engine"
	"stock-monitor/internal/logger"
	"stock-monitor/internal/types"
)

// Server serves GET /snapshot and GET /healthz.
type Server struct {
	eng  *engine.Engine
	http *http.Server
}

// Option configures the server.
type Option func(*Server)

// WithReadTimeout overrides the default request read timeout.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.http.ReadTimeout = d
	}
}

func New(addr string, eng *engine.Engine, opts ...Option) *Server {
	s := &Server{eng: eng}

	mux := http.NewServeMux()
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the listener on its own goroutine and returns immediately.
func (s *Server) Start(ctx context.Context) {
	go func() {
		logger.Info(ctx, "Display server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "Display server failed", err)
		}
	}()
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	out, ok := s.eng.Display()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	if out.PrivacyMode {
		out = maskSnapshot(out)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		logger.Warn(r.Context(), "Snapshot encode failed", "error", err)
	}
}

// maskSnapshot hides identities and absolute money amounts while keeping
// percentage movement visible, for screens shared in public.
func maskSnapshot(in types.DisplaySnapshot) types.DisplaySnapshot {
	out := in
	out.Totals = types.DisplayTotals{
		TotalProfitPct:   in.Totals.TotalProfitPct,
		PositionPct:      in.Totals.PositionPct,
		OverallChangePct: in.Totals.OverallChangePct,
		HoldingCount:     in.Totals.HoldingCount,
		SymbolCount:      in.Totals.SymbolCount,
	}
	out.Rows = make([]types.DisplayRow, len(in.Rows))
	for i, row := range in.Rows {
		out.Rows[i] = types.DisplayRow{
			Code:        "***",
			Name:        "***",
			ChangePct:   row.ChangePct,
			ProfitPct:   row.ProfitPct,
			UpdateLabel: row.UpdateLabel,
		}
	}
	return out
}
