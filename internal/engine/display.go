package engine

import (
	"time"

	"stock-monitor/internal/holdings"
	"stock-monitor/internal/types"
)

// RefreshDisplay recomputes the display snapshot from current state and
// swaps it in for the renderer. Called once per cycle from the scheduler.
func (e *Engine) RefreshDisplay(now time.Time) {
	rows := make([]types.DisplayRow, 0, len(e.active))
	values := make([]holdings.SymbolValue, 0, len(e.active))

	for _, code := range e.active {
		s := e.states[code]
		if s == nil {
			continue
		}
		row := types.DisplayRow{
			Code:        code,
			Name:        s.LastName,
			CostPrice:   s.CostPrice,
			Quantity:    s.Quantity,
			UpdateLabel: s.LastUpdateLabel,
		}
		v := holdings.SymbolValue{Quantity: s.Quantity, AvgCost: s.CostPrice}
		if s.LastPrice != nil {
			price := *s.LastPrice
			change := s.LastChangePct
			row.Price = &price
			row.ChangePct = &change
			v.HasPrice = true
			v.Price = price
			v.ChangePct = change

			if s.Quantity > 0 && s.CostPrice != nil {
				profit := (price - *s.CostPrice) * s.Quantity
				row.Profit = &profit
				if cost := *s.CostPrice * s.Quantity; cost > 0 {
					pct := profit / cost * 100
					row.ProfitPct = &pct
				}
			}
		}
		rows = append(rows, row)
		values = append(values, v)
	}

	m := holdings.Aggregate(values, e.funds)
	snap := types.DisplaySnapshot{
		Time:        now.Format("2006-01-02 15:04:05"),
		PrivacyMode: e.privacy,
		Totals: types.DisplayTotals{
			AvailableFunds:     e.funds.AvailableFunds,
			TotalOriginalFunds: e.funds.TotalOriginalFunds,
			TotalAssets:        m.TotalAssets,
			TotalHoldingValue:  m.TotalHoldingValue,
			TotalProfit:        m.PortfolioProfit,
			TotalProfitPct:     m.PortfolioProfitPc,
			PositionPct:        m.PositionPct,
			OverallChangePct:   m.OverallChangePct,
			HoldingCount:       m.HoldingCount,
			SymbolCount:        len(rows),
		},
		Rows: rows,
	}
	e.display.Store(snap)
}

// Display returns the most recently published snapshot. Safe to call from
// any goroutine. The second return is false until the first refresh.
func (e *Engine) Display() (types.DisplaySnapshot, bool) {
	v := e.display.Load()
	if v == nil {
		return types.DisplaySnapshot{}, false
	}
	return v.(types.DisplaySnapshot), true
}
