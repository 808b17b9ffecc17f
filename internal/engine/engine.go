// Package engine owns the per-symbol runtime state: last sampled price,
// derived holdings, and alert hysteresis. All mutation happens from the
// single scheduling loop; the display snapshot is the only value handed to
// other goroutines, as an immutable copy behind an atomic swap.
package engine

import (
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"stock-monitor/internal/market"
	"stock-monitor/internal/store"
	"stock-monitor/internal/types"
)

// SymbolState is the engine's runtime record for one symbol. It is created
// on first config load or when the symbol appears in a reconciled config,
// and never destroyed: a symbol removed from config keeps its state so the
// display does not lose history, it just stops being polled.
type SymbolState struct {
	Code            string
	LastPrice       *float64
	LastSampleTime  time.Time // zero until the first successful sample
	LastName        string
	LastUpdateLabel string
	LastChangePct   float64
	Quantity        float64
	CostPrice       *float64 // nil when no valid transaction exists
	Transactions    []types.Transaction
	AlertUp         *float64
	AlertDown       *float64

	upFired   bool
	downFired bool
}

// AlertUpArmed reports whether the up threshold may fire on the next cross.
func (s *SymbolState) AlertUpArmed() bool { return !s.upFired }

// AlertDownArmed reports whether the down threshold may fire on the next cross.
func (s *SymbolState) AlertDownArmed() bool { return !s.downFired }

// Engine is the symbol state store plus the portfolio context it is valued
// against. It is constructed once and passed into the scheduler, reconciler,
// and persister; there are no package-level globals.
type Engine struct {
	funds       types.Funds
	privacy     bool
	marketHours map[string]store.MarketConfig

	states  map[string]*SymbolState
	active  []string // codes present in the current config, sorted
	display atomic.Value
}

func New() *Engine {
	e := &Engine{states: map[string]*SymbolState{}}
	e.display.Store(types.DisplaySnapshot{})
	return e
}

// ActiveSymbols returns the codes currently configured for polling. Symbols
// retained in state but absent from config are not included.
func (e *Engine) ActiveSymbols() []string { return e.active }

// State returns the runtime record for a symbol, or nil.
func (e *Engine) State(code string) *SymbolState { return e.states[code] }

// States returns every retained symbol record, active codes first, then
// retained-only codes, both sorted so snapshot output order is stable.
func (e *Engine) States() []*SymbolState {
	out := make([]*SymbolState, 0, len(e.states))
	seen := map[string]bool{}
	for _, code := range e.active {
		if s := e.states[code]; s != nil {
			out = append(out, s)
			seen[code] = true
		}
	}
	retained := make([]string, 0, len(e.states))
	for code := range e.states {
		if !seen[code] {
			retained = append(retained, code)
		}
	}
	sort.Strings(retained)
	for _, code := range retained {
		out = append(out, e.states[code])
	}
	return out
}

func (e *Engine) Funds() types.Funds                         { return e.funds }
func (e *Engine) PrivacyMode() bool                          { return e.privacy }
func (e *Engine) MarketHours() map[string]store.MarketConfig { return e.marketHours }

// RecordQuote folds one successful provider sample into symbol state. The
// alert detector runs against the previous price before any update. The
// state itself is rewritten only when the price moved or at least one second
// passed since the last recorded sample, which throttles pointless rewrites
// while keeping the staleness label fresh.
func (e *Engine) RecordQuote(code string, q types.Quote, prevClose float64, now time.Time) []AlertEvent {
	s := e.states[code]
	if s == nil {
		return nil
	}

	changePct := 0.0
	if prevClose > 0 {
		changePct = (q.Price - prevClose) / prevClose * 100
	}

	events := s.checkAlerts(q.Price)

	shouldUpdate := s.LastPrice == nil ||
		*s.LastPrice != q.Price ||
		s.LastSampleTime.IsZero() ||
		now.Sub(s.LastSampleTime) >= time.Second
	if shouldUpdate {
		p := q.Price
		s.LastPrice = &p
		s.LastSampleTime = now
		if q.Name != "" {
			s.LastName = q.Name
		}
		s.LastUpdateLabel = updateLabel(q.AsOf, now)
		s.LastChangePct = changePct
	}
	return events
}

func updateLabel(asOf, now time.Time) string {
	t := asOf
	if t.IsZero() {
		t = now
	}
	return t.Format("15:04:05.000")
}

// DisplayName is the fallback name shown before the provider reports one:
// US tickers as-is, mainland codes with their exchange prefix.
func DisplayName(code string) string {
	if market.Classify(code) == "US" {
		return code
	}
	if strings.HasPrefix(code, "00") || strings.HasPrefix(code, "30") {
		return "sz" + code
	}
	return "sh" + code
}
