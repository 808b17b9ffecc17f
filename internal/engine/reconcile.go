package engine

import (
	"sort"

	"stock-monitor/internal/holdings"
	"stock-monitor/internal/store"
)

// ApplyConfig merges a loaded holdings config into the state store. Existing
// symbols keep their price history (lastPrice, sample time, name, change
// percent); only the derived position and thresholds are replaced, and both
// alert directions are re-armed so edited thresholds can fire again. Symbols
// no longer in config stay in the store but leave the active list.
func (e *Engine) ApplyConfig(h *store.Holdings) {
	e.funds = h.Funds
	e.privacy = h.PrivacyMode
	e.marketHours = h.MarketHours

	active := make([]string, 0, len(h.Stocks))
	for code := range h.Stocks {
		active = append(active, code)
	}
	sort.Strings(active)

	for _, code := range active {
		sc := h.Stocks[code]
		qty, avg := holdings.ComputeHolding(sc.Transactions)

		s := e.states[code]
		if s == nil {
			s = &SymbolState{
				Code:            code,
				LastName:        DisplayName(code),
				LastUpdateLabel: "--",
			}
			e.states[code] = s
		}
		s.Quantity = qty
		if qty > 0 {
			cost := avg
			s.CostPrice = &cost
		} else {
			s.CostPrice = nil
		}
		s.Transactions = sc.Transactions
		s.AlertUp = sc.AlertUp
		s.AlertDown = sc.AlertDown
		s.upFired = false
		s.downFired = false
	}
	e.active = active
}
