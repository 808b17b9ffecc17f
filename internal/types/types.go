package types

import "time"

// Quote is one spot sample returned by a market-data provider.
type Quote struct {
	Symbol    string
	Name      string
	Price     float64
	PrevClose float64 // 0 when the provider did not report a previous close
	AsOf      time.Time
}

// DailyBar is end-of-day OHLCV detail for one symbol and date.
type DailyBar struct {
	Open, Close, High, Low float64
	Volume                 float64
	Amount                 float64
}

// Transaction is a single recorded buy. Entries with non-positive quantity
// or price are skipped by the cost calculator, never an error.
type Transaction struct {
	Time     string  `yaml:"time" json:"time"`
	Quantity float64 `yaml:"quantity" json:"quantity"`
	Price    float64 `yaml:"price" json:"price"`
}

// Funds holds the principal and liquid-cash configuration.
type Funds struct {
	AvailableFunds     float64 `yaml:"available_funds" json:"available_funds"`
	TotalOriginalFunds float64 `yaml:"total_original_funds" json:"total_original_funds"`
}

// DisplayRow is one symbol line of the display snapshot consumed by the
// external renderer. Pointer fields are nil when the value is not known yet.
type DisplayRow struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	ChangePct   *float64 `json:"change_pct"`
	CostPrice   *float64 `json:"cost_price"`
	Quantity    float64  `json:"quantity"`
	Profit      *float64 `json:"profit"`
	ProfitPct   *float64 `json:"profit_pct"`
	UpdateLabel string   `json:"update_time"`
}

// DisplayTotals carries the portfolio aggregates for the header line.
type DisplayTotals struct {
	AvailableFunds     float64  `json:"available_funds"`
	TotalOriginalFunds float64  `json:"total_original_funds"`
	TotalAssets        float64  `json:"total_assets"`
	TotalHoldingValue  float64  `json:"total_holding_value"`
	TotalProfit        float64  `json:"total_profit"`
	TotalProfitPct     *float64 `json:"total_profit_pct"`
	PositionPct        float64  `json:"position_pct"`
	OverallChangePct   float64  `json:"overall_change_pct"`
	HoldingCount       int      `json:"holding_count"`
	SymbolCount        int      `json:"symbol_count"`
}

// DisplaySnapshot is the pull-based view of the whole monitor, rebuilt once
// per cycle and consumed by the renderer at its own pace.
type DisplaySnapshot struct {
	Time        string        `json:"time"`
	PrivacyMode bool          `json:"privacy_mode"`
	Totals      DisplayTotals `json:"totals"`
	Rows        []DisplayRow  `json:"rows"`
}
