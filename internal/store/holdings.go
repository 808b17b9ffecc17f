package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stock-monitor/internal/types"
)

// StockConfig is one symbol entry of the holdings file. Price and Quantity
// are the legacy single-lot fields; LoadHoldings migrates them into a
// one-element transaction list.
type StockConfig struct {
	Transactions []types.Transaction `yaml:"transactions" json:"transactions"`
	AlertUp      *float64            `yaml:"alert_up" json:"alert_up,omitempty"`
	AlertDown    *float64            `yaml:"alert_down" json:"alert_down,omitempty"`

	Price    float64 `yaml:"price" json:"-"`
	Quantity float64 `yaml:"quantity" json:"-"`
}

// Window is one time-of-day trading interval. Start > End means the window
// wraps past midnight.
type Window struct {
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

// MarketConfig gates polling for one market: allowed weekdays (1=Monday ..
// 7=Sunday) and up to two daily windows.
type MarketConfig struct {
	Enabled   bool    `yaml:"enabled" json:"enabled"`
	Weekdays  []int   `yaml:"weekdays" json:"weekdays"`
	Morning   *Window `yaml:"morning" json:"morning,omitempty"`
	Afternoon *Window `yaml:"afternoon" json:"afternoon,omitempty"`
}

// Holdings is the dynamic half of the configuration: funds, per-symbol
// transactions and thresholds, privacy mode, and market hours. It is the
// source of truth the reconciler merges into engine state. The file is
// parsed as YAML, which also accepts the legacy JSON holdings files.
type Holdings struct {
	Funds       types.Funds             `yaml:"funds" json:"funds"`
	Stocks      map[string]StockConfig  `yaml:"stocks" json:"stocks"`
	PrivacyMode bool                    `yaml:"privacy_mode" json:"privacy_mode"`
	MarketHours map[string]MarketConfig `yaml:"market_hours" json:"market_hours"`
}

// LoadHoldings reads and normalizes the holdings file. Legacy entries
// carrying price/quantity instead of a transaction list are converted to a
// single synthetic transaction so cost math sees one consistent shape.
func LoadHoldings(path string) (*Holdings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var h Holdings
	if err := yaml.Unmarshal(b, &h); err != nil {
		return nil, fmt.Errorf("parse holdings %s: %w", path, err)
	}
	if h.Stocks == nil {
		h.Stocks = map[string]StockConfig{}
	}
	for code, sc := range h.Stocks {
		if len(sc.Transactions) == 0 && sc.Quantity > 0 {
			sc.Transactions = []types.Transaction{{
				Quantity: sc.Quantity,
				Price:    sc.Price,
			}}
			h.Stocks[code] = sc
		}
	}
	return &h, nil
}
