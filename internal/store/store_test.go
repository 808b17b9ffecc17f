package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	p := writeFile(t, t.TempDir(), "config.yaml", "mode: DRY_RUN\n")

	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Exchange != "NSE" {
		t.Errorf("Expected default exchange NSE, got %s", cfg.Exchange)
	}
	if cfg.PollMillis != 500 {
		t.Errorf("Expected default poll 500ms, got %d", cfg.PollMillis)
	}
	if cfg.MinRequestGapMs != 300 || cfg.MaxJitterMs != 200 || cfg.SymbolDelayMs != 200 {
		t.Errorf("Unexpected pacing defaults: %d %d %d", cfg.MinRequestGapMs, cfg.MaxJitterMs, cfg.SymbolDelayMs)
	}
	if cfg.RetrySeconds != 2 || cfg.BackoffSeconds != 4 {
		t.Errorf("Expected retry 2s and backoff 4s, got %d %d", cfg.RetrySeconds, cfg.BackoffSeconds)
	}
	if cfg.CutoffTime != "15:01" {
		t.Errorf("Expected default cutoff 15:01, got %s", cfg.CutoffTime)
	}
	if cfg.HoldingsFile != "config/holdings.yaml" {
		t.Errorf("Unexpected default holdings file %s", cfg.HoldingsFile)
	}
	if cfg.ServerAddr != ":8124" {
		t.Errorf("Expected default server addr :8124, got %s", cfg.ServerAddr)
	}
}

func TestLoadConfigRejectsBadMode(t *testing.T) {
	p := writeFile(t, t.TempDir(), "config.yaml", "mode: PAPER\n")

	if _, err := LoadConfig(p); err == nil {
		t.Fatal("Expected validation error for unknown mode")
	}
}

func TestLoadHoldings(t *testing.T) {
	content := `
funds:
  available_funds: 1000.5
  total_original_funds: 5000
privacy_mode: true
stocks:
  "600519":
    alert_up: 1600
    alert_down: 1400
    transactions:
      - time: "2025-01-02"
        quantity: 100
        price: 1500
market_hours:
  CN:
    enabled: true
    weekdays: [1, 2, 3, 4, 5]
    morning:
      start: "09:30"
      end: "11:30"
`
	p := writeFile(t, t.TempDir(), "holdings.yaml", content)

	h, err := LoadHoldings(p)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if h.Funds.AvailableFunds != 1000.5 || h.Funds.TotalOriginalFunds != 5000 {
		t.Errorf("Unexpected funds: %+v", h.Funds)
	}
	if !h.PrivacyMode {
		t.Error("Expected privacy mode on")
	}

	sc, ok := h.Stocks["600519"]
	if !ok {
		t.Fatal("Expected stock entry for 600519")
	}
	if sc.AlertUp == nil || *sc.AlertUp != 1600 {
		t.Errorf("Unexpected alert_up: %v", sc.AlertUp)
	}
	if len(sc.Transactions) != 1 || sc.Transactions[0].Quantity != 100 {
		t.Errorf("Unexpected transactions: %+v", sc.Transactions)
	}

	cn, ok := h.MarketHours["CN"]
	if !ok || !cn.Enabled || cn.Morning == nil || cn.Morning.Start != "09:30" {
		t.Errorf("Unexpected market hours: %+v", cn)
	}
}

func TestLoadHoldingsLegacyMigration(t *testing.T) {
	content := `
stocks:
  AAPL:
    price: 210.5
    quantity: 10
`
	p := writeFile(t, t.TempDir(), "holdings.yaml", content)

	h, err := LoadHoldings(p)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	sc := h.Stocks["AAPL"]
	if len(sc.Transactions) != 1 {
		t.Fatalf("Expected one migrated transaction, got %d", len(sc.Transactions))
	}
	if sc.Transactions[0].Quantity != 10 || sc.Transactions[0].Price != 210.5 {
		t.Errorf("Unexpected migrated transaction: %+v", sc.Transactions[0])
	}
}

func TestLoadHoldingsAcceptsJSON(t *testing.T) {
	// The original holdings files were JSON; YAML parses them unchanged.
	content := `{"funds": {"available_funds": 42}, "stocks": {"AAPL": {"quantity": 1, "price": 2}}}`
	p := writeFile(t, t.TempDir(), "holdings.json", content)

	h, err := LoadHoldings(p)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if h.Funds.AvailableFunds != 42 {
		t.Errorf("Expected funds 42, got %f", h.Funds.AvailableFunds)
	}
	if len(h.Stocks["AAPL"].Transactions) != 1 {
		t.Error("Expected legacy JSON entry migrated")
	}
}

func TestLoadHoldingsMalformed(t *testing.T) {
	p := writeFile(t, t.TempDir(), "holdings.yaml", "stocks: [not a map\n")

	if _, err := LoadHoldings(p); err == nil {
		t.Fatal("Expected parse error")
	}
}

func TestWatcherCommitGatesMarker(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "holdings.yaml", "stocks: {}\n")

	w := NewWatcher(p)
	if changed, _ := w.Poll(); changed {
		t.Fatal("Expected no change right after construction")
	}

	// Touch the file with a strictly later mtime.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(p, future, future); err != nil {
		t.Fatal(err)
	}

	changed, mtime := w.Poll()
	if !changed {
		t.Fatal("Expected change detected after touch")
	}

	// Without Commit the change keeps being reported (failed-apply retry).
	if again, _ := w.Poll(); !again {
		t.Error("Expected uncommitted change to be re-reported")
	}

	w.Commit(mtime)
	if again, _ := w.Poll(); again {
		t.Error("Expected no change after commit")
	}
}

func TestWatcherMissingFile(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "absent.yaml"))
	if changed, _ := w.Poll(); changed {
		t.Error("Expected missing file to report no change")
	}
}
