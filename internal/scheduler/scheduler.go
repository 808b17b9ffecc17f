// Package scheduler drives the sampling loop: one pass over all configured
// symbols per cycle, provider etiquette (global pacing, jitter, per-symbol
// delays), trading-hours gating, config reconciliation, date rollover, and
// per-cycle snapshot persistence. Everything runs on one goroutine; the
// loop never terminates itself on error, only on external interrupt.
package scheduler

import (
	"context"
	"path/filepath"
	"time"

	"stock-monitor/internal/alertlog"
	"stock-monitor/internal/closecache"
	"stock-monitor/internal/engine"
	"stock-monitor/internal/interfaces"
	"stock-monitor/internal/logger"
	"stock-monitor/internal/market"
	"stock-monitor/internal/ratelimit"
	"stock-monitor/internal/snapshot"
	"stock-monitor/internal/store"
	"stock-monitor/internal/types"
)

type Scheduler struct {
	cfg       *store.Config
	eng       *engine.Engine
	provider  interfaces.QuoteProvider
	persister snapshot.Persister
	gate      *ratelimit.Gate
	watcher   *store.Watcher

	closes *closecache.Cache // previous-close cache, keyed by yesterday's date
	today  string            // date the per-cycle snapshot currently targets

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(cfg *store.Config, eng *engine.Engine, provider interfaces.QuoteProvider, persister snapshot.Persister) *Scheduler {
	s := &Scheduler{
		cfg:       cfg,
		eng:       eng,
		provider:  provider,
		persister: persister,
		gate: ratelimit.NewGate(
			time.Duration(cfg.MinRequestGapMs)*time.Millisecond,
			time.Duration(cfg.MaxJitterMs)*time.Millisecond,
		),
		watcher: store.NewWatcher(cfg.HoldingsFile),
		now:     time.Now,
		sleep:   sleepCtx,
	}
	s.today = s.now().Format("2006-01-02")
	s.closes = closecache.New(s.closeCacheDir(), yesterday(s.now()))
	return s
}

func (s *Scheduler) closeCacheDir() string {
	return filepath.Join(s.cfg.HistoryDir, "closes")
}

func yesterday(t time.Time) string {
	return t.AddDate(0, 0, -1).Format("2006-01-02")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run executes the polling loop until the context is cancelled, then writes
// one final snapshot and returns. Errors inside a cycle never end the loop:
// a rate-limit signal earns the long backoff, anything else the short retry
// sleep.
func (s *Scheduler) Run(ctx context.Context) error {
	s.warmUp(ctx)

	for {
		err := s.cycle(ctx)
		if ctx.Err() != nil {
			s.finalPersist()
			return nil
		}

		pause := time.Duration(s.cfg.PollMillis)*time.Millisecond + s.gate.Jitter()
		switch {
		case err == nil:
		case ratelimit.IsRateLimited(err):
			pause = time.Duration(s.cfg.BackoffSeconds) * time.Second
			logger.Warn(ctx, "Rate limit detected, backing off", "error", err, "pause", pause.String())
		default:
			pause = time.Duration(s.cfg.RetrySeconds) * time.Second
			logger.Warn(ctx, "Cycle failed, retrying", "error", err, "pause", pause.String())
		}
		if err := s.sleep(ctx, pause); err != nil {
			s.finalPersist()
			return nil
		}
	}
}

// warmUp samples every active symbol once at startup, ignoring trading-hour
// gating, so the display has data before the first regular cycle. The daily
// cutoff still applies: a restart after it must not burst provider calls.
func (s *Scheduler) warmUp(ctx context.Context) {
	if market.AfterCutoff(s.now(), s.cfg.CutoffTime) {
		s.eng.RefreshDisplay(s.now())
		return
	}
	symbols := s.eng.ActiveSymbols()
	for i, code := range symbols {
		if err := s.pollSymbol(ctx, code); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn(ctx, "Warm-up fetch failed", "symbol", code, "error", err)
		}
		if i < len(symbols)-1 {
			_ = s.sleep(ctx, time.Duration(s.cfg.SymbolDelayMs)*time.Millisecond)
		}
	}
	s.eng.RefreshDisplay(s.now())
}

// cycle is one pass: rollover bookkeeping, config reconciliation, the
// polling sweep (unless past the cutoff), display refresh, and the
// best-effort snapshot write for today.
func (s *Scheduler) cycle(ctx context.Context) error {
	s.handleRollover(ctx)
	s.reconcile(ctx)

	var pollErr error
	if !market.AfterCutoff(s.now(), s.cfg.CutoffTime) {
		pollErr = s.pollSymbols(ctx)
	}

	s.eng.RefreshDisplay(s.now())
	s.persistFor(ctx, s.today)
	return pollErr
}

// pollSymbols sweeps the active symbols. Per-symbol provider failures keep
// the previous state and move on; only a rate-limit signal aborts the sweep
// so the loop can back off as a whole.
func (s *Scheduler) pollSymbols(ctx context.Context) error {
	symbols := s.eng.ActiveSymbols()
	for i, code := range symbols {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !market.IsTradingTime(code, s.eng.MarketHours(), s.now()) {
			continue
		}
		if err := s.pollSymbol(ctx, code); err != nil {
			if ratelimit.IsRateLimited(err) {
				return err
			}
			// Stale-but-last-known display beats a hole in the table.
			logger.Warn(ctx, "Quote failed, keeping last state", "symbol", code, "error", err)
		}
		if i < len(symbols)-1 {
			_ = s.sleep(ctx, time.Duration(s.cfg.SymbolDelayMs)*time.Millisecond)
		}
	}
	return nil
}

func (s *Scheduler) pollSymbol(ctx context.Context, code string) error {
	if err := s.gate.Wait(ctx); err != nil {
		return err
	}

	qctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.QuoteTimeoutSeconds)*time.Second)
	q, err := s.provider.FetchQuote(qctx, code)
	cancel()
	if err != nil {
		return err
	}

	prevClose := s.resolvePrevClose(ctx, code, q)
	events := s.eng.RecordQuote(code, q, prevClose, s.now())
	for _, ev := range events {
		logger.Alert(ctx, ev.Code, ev.Direction, ev.Price, ev.Threshold, "name", ev.Name)
		if err := alertlog.Append(alertlog.Entry{
			Symbol:    ev.Code,
			Name:      ev.Name,
			Direction: ev.Direction,
			Price:     ev.Price,
			Threshold: ev.Threshold,
		}); err != nil {
			logger.Warn(ctx, "Alert journal write failed", "symbol", ev.Code, "error", err)
		}
	}
	return nil
}

// resolvePrevClose resolves the change-percent baseline: memory cache, then
// the per-date file cache, then the provider's own previous-close field
// (written back to the cache), then the current price as last resort.
func (s *Scheduler) resolvePrevClose(ctx context.Context, code string, q types.Quote) float64 {
	if v, ok := s.closes.Get(code); ok {
		return v
	}
	if q.PrevClose > 0 {
		if err := s.closes.Put(code, q.PrevClose); err != nil {
			logger.Warn(ctx, "Close cache write failed", "symbol", code, "error", err)
		}
		return q.PrevClose
	}
	return q.Price
}

// reconcile applies holdings-file edits. A malformed file skips the update
// and leaves the previous configuration authoritative; the stale marker is
// not committed so the reload is retried next cycle.
func (s *Scheduler) reconcile(ctx context.Context) {
	changed, mtime := s.watcher.Poll()
	if !changed {
		return
	}
	h, err := store.LoadHoldings(s.cfg.HoldingsFile)
	if err != nil {
		logger.Warn(ctx, "Holdings reload failed, keeping previous config", "error", err)
		return
	}
	s.eng.ApplyConfig(h)
	s.watcher.Commit(mtime)
	logger.Info(ctx, "Holdings config reloaded", "symbols", len(s.eng.ActiveSymbols()))
}

// handleRollover writes the final snapshot for the prior date the first
// time a cycle observes that the calendar date advanced, using the retained
// pre-rollover state, then re-points the close cache at the new yesterday.
func (s *Scheduler) handleRollover(ctx context.Context) {
	date := s.now().Format("2006-01-02")
	if date == s.today {
		return
	}
	logger.Info(ctx, "Date rollover detected", "from", s.today, "to", date)
	s.persistFor(ctx, s.today)
	s.today = date
	s.closes = closecache.New(s.closeCacheDir(), yesterday(s.now()))
}

// persistFor writes the snapshot for one date. Storage faults are logged
// and swallowed; persistence is telemetry, not a transaction.
func (s *Scheduler) persistFor(ctx context.Context, date string) {
	rows := s.snapshotRows()
	if err := s.persister.Write(ctx, date, rows, s.eng.Funds()); err != nil {
		logger.Warn(ctx, "Snapshot write failed", "date", date, "error", err)
	}
}

func (s *Scheduler) snapshotRows() []snapshot.SymbolRow {
	states := s.eng.States()
	rows := make([]snapshot.SymbolRow, 0, len(states))
	for _, st := range states {
		if st.LastPrice == nil {
			continue
		}
		row := snapshot.SymbolRow{
			Code:         st.Code,
			Name:         st.LastName,
			Price:        *st.LastPrice,
			ChangePct:    st.LastChangePct,
			UpdateLabel:  st.LastUpdateLabel,
			Quantity:     st.Quantity,
			CostPrice:    st.CostPrice,
			Transactions: st.Transactions,
		}
		if v, ok := s.closes.Get(st.Code); ok {
			yc := v
			row.YesterdayClose = &yc
		}
		rows = append(rows, row)
	}
	return rows
}

// finalPersist is the interrupt path: one last best-effort write with a
// bounded fresh context, since the loop context is already cancelled.
func (s *Scheduler) finalPersist() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info(ctx, "Shutting down, writing final snapshot", "date", s.today)
	s.persistFor(ctx, s.today)
}
