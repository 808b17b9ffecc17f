package holdings

import "stock-monitor/internal/types"

// SymbolValue is the per-symbol input to Aggregate: the last known price (if
// any), the derived position, and the last computed change percent.
type SymbolValue struct {
	HasPrice  bool
	Price     float64
	Quantity  float64
	AvgCost   *float64
	ChangePct float64
}

// Metrics carries the portfolio-level derived values recomputed every cycle.
type Metrics struct {
	TotalHoldingValue float64
	TotalProfit       float64 // sum of per-symbol profit for priced positions
	TotalAssets       float64
	PositionPct       float64
	OverallChangePct  float64
	PortfolioProfit   float64  // totalAssets - principal
	PortfolioProfitPc *float64 // nil when principal <= 0
	HoldingCount      int
}

// Aggregate recomputes portfolio metrics from symbol values and funds.
func Aggregate(values []SymbolValue, funds types.Funds) Metrics {
	var m Metrics
	var changeSum float64
	var changeCount int

	for _, v := range values {
		if v.Quantity > 0 {
			m.HoldingCount++
		}
		if !v.HasPrice {
			continue
		}
		changeSum += v.ChangePct
		changeCount++
		if v.Quantity > 0 {
			m.TotalHoldingValue += v.Price * v.Quantity
			if v.AvgCost != nil {
				m.TotalProfit += (v.Price - *v.AvgCost) * v.Quantity
			}
		}
	}

	m.TotalAssets = funds.AvailableFunds + m.TotalHoldingValue
	if m.TotalAssets > 0 {
		m.PositionPct = m.TotalHoldingValue / m.TotalAssets * 100
	}
	if changeCount > 0 {
		m.OverallChangePct = changeSum / float64(changeCount)
	}
	m.PortfolioProfit = m.TotalAssets - funds.TotalOriginalFunds
	if funds.TotalOriginalFunds > 0 {
		pct := m.PortfolioProfit / funds.TotalOriginalFunds * 100
		m.PortfolioProfitPc = &pct
	}
	return m
}
