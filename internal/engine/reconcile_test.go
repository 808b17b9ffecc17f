package engine

import (
	"testing"
	"time"

	"stock-monitor/internal/store"
	"stock-monitor/internal/types"
)

func holdingsConfig(stocks map[string]store.StockConfig) *store.Holdings {
	return &store.Holdings{
		Funds:  types.Funds{AvailableFunds: 1000, TotalOriginalFunds: 5000},
		Stocks: stocks,
	}
}

func TestApplyConfigCreatesStates(t *testing.T) {
	e := New()
	e.ApplyConfig(holdingsConfig(map[string]store.StockConfig{
		"600519": {Transactions: []types.Transaction{{Quantity: 100, Price: 1500}}},
		"AAPL":   {AlertUp: ptr(250.0)},
	}))

	active := e.ActiveSymbols()
	if len(active) != 2 || active[0] != "600519" || active[1] != "AAPL" {
		t.Fatalf("Expected sorted active list [600519 AAPL], got %v", active)
	}

	s := e.State("600519")
	if s == nil {
		t.Fatal("Expected state for 600519")
	}
	if s.Quantity != 100 {
		t.Errorf("Expected quantity 100, got %f", s.Quantity)
	}
	if s.CostPrice == nil || *s.CostPrice != 1500 {
		t.Errorf("Expected cost price 1500, got %v", s.CostPrice)
	}
	if s.LastName != "sh600519" {
		t.Errorf("Expected placeholder name sh600519, got %q", s.LastName)
	}
	if s.LastUpdateLabel != "--" {
		t.Errorf("Expected placeholder update label, got %q", s.LastUpdateLabel)
	}

	a := e.State("AAPL")
	if a.CostPrice != nil {
		t.Error("Expected nil cost price for watch-only symbol")
	}
	if a.AlertUp == nil || *a.AlertUp != 250.0 {
		t.Errorf("Expected alert up 250, got %v", a.AlertUp)
	}
}

func TestApplyConfigPreservesPriceHistory(t *testing.T) {
	e := New()
	e.ApplyConfig(holdingsConfig(map[string]store.StockConfig{
		"AAPL": {Transactions: []types.Transaction{{Quantity: 10, Price: 200}}},
	}))

	now := time.Date(2025, 3, 3, 11, 0, 0, 0, time.UTC)
	e.RecordQuote("AAPL", types.Quote{Name: "Apple Inc", Price: 222.5, AsOf: now}, 220, now)

	// Reload with changed position.
	e.ApplyConfig(holdingsConfig(map[string]store.StockConfig{
		"AAPL": {Transactions: []types.Transaction{{Quantity: 20, Price: 210}}},
	}))

	s := e.State("AAPL")
	if s.LastPrice == nil || *s.LastPrice != 222.5 {
		t.Errorf("Expected last price preserved, got %v", s.LastPrice)
	}
	if s.LastName != "Apple Inc" {
		t.Errorf("Expected provider name preserved, got %q", s.LastName)
	}
	if !s.LastSampleTime.Equal(now) {
		t.Error("Expected sample time preserved across reload")
	}
	if s.Quantity != 20 {
		t.Errorf("Expected quantity replaced to 20, got %f", s.Quantity)
	}
	if s.CostPrice == nil || *s.CostPrice != 210 {
		t.Errorf("Expected cost price replaced to 210, got %v", s.CostPrice)
	}
}

func TestApplyConfigRearmsAlerts(t *testing.T) {
	e := New()
	e.ApplyConfig(holdingsConfig(map[string]store.StockConfig{
		"AAPL": {AlertUp: ptr(10.0)},
	}))

	record(t, e, "AAPL", 11) // fire and latch
	if e.State("AAPL").AlertUpArmed() {
		t.Fatal("Expected up alert latched after fire")
	}

	e.ApplyConfig(holdingsConfig(map[string]store.StockConfig{
		"AAPL": {AlertUp: ptr(12.0)},
	}))

	if !e.State("AAPL").AlertUpArmed() {
		t.Error("Expected up alert re-armed after config reload")
	}
}

func TestApplyConfigRetainsRemovedSymbols(t *testing.T) {
	e := New()
	e.ApplyConfig(holdingsConfig(map[string]store.StockConfig{
		"AAPL": {}, "MSFT": {},
	}))
	record(t, e, "MSFT", 400)

	e.ApplyConfig(holdingsConfig(map[string]store.StockConfig{
		"AAPL": {},
	}))

	if len(e.ActiveSymbols()) != 1 {
		t.Fatalf("Expected one active symbol, got %v", e.ActiveSymbols())
	}
	s := e.State("MSFT")
	if s == nil {
		t.Fatal("Expected removed symbol retained in state store")
	}
	if s.LastPrice == nil || *s.LastPrice != 400 {
		t.Errorf("Expected retained price 400, got %v", s.LastPrice)
	}

	// Retained symbols still show up in the full state listing.
	states := e.States()
	if len(states) != 2 {
		t.Errorf("Expected two retained states, got %d", len(states))
	}
	if states[0].Code != "AAPL" {
		t.Errorf("Expected active symbol first, got %s", states[0].Code)
	}
}

func TestStatesOrderStableWithRetainedSymbols(t *testing.T) {
	e := New()
	e.ApplyConfig(holdingsConfig(map[string]store.StockConfig{
		"AAPL": {}, "MSFT": {}, "NVDA": {}, "TSLA": {},
	}))

	// Drop three symbols so the retained set has more than one entry.
	e.ApplyConfig(holdingsConfig(map[string]store.StockConfig{
		"NVDA": {},
	}))

	want := []string{"NVDA", "AAPL", "MSFT", "TSLA"}
	for i := 0; i < 20; i++ {
		states := e.States()
		if len(states) != len(want) {
			t.Fatalf("Expected %d states, got %d", len(want), len(states))
		}
		for j, s := range states {
			if s.Code != want[j] {
				t.Fatalf("Expected order %v, got %s at index %d on iteration %d", want, s.Code, j, i)
			}
		}
	}
}

func TestApplyConfigFundsAndPrivacy(t *testing.T) {
	e := New()
	h := holdingsConfig(nil)
	h.PrivacyMode = true
	e.ApplyConfig(h)

	if !e.PrivacyMode() {
		t.Error("Expected privacy mode applied")
	}
	if e.Funds().AvailableFunds != 1000 {
		t.Errorf("Expected available funds 1000, got %f", e.Funds().AvailableFunds)
	}
}
