package market

import (
	"testing"
	"time"

	"stock-monitor/internal/store"
)

func TestClassify(t *testing.T) {
	cases := map[string]string{
		"AAPL":    "US",
		"msft":    "US",
		"600519":  "CN",
		"000001":  "CN",
		"BRK5000": "CN", // too long for a US ticker
		"":        "CN",
	}
	for code, want := range cases {
		if got := Classify(code); got != want {
			t.Errorf("Classify(%q): expected %s, got %s", code, want, got)
		}
	}
}

func TestInWindow(t *testing.T) {
	w := store.Window{Start: "09:30", End: "11:30"}
	if !InWindow(w, "09:30") || !InWindow(w, "10:00") || !InWindow(w, "11:30") {
		t.Error("Expected boundary and interior clocks inside window")
	}
	if InWindow(w, "09:29") || InWindow(w, "11:31") {
		t.Error("Expected clocks outside window to be rejected")
	}
}

func TestInWindowWrapsMidnight(t *testing.T) {
	// US session expressed in a timezone where it spans midnight.
	w := store.Window{Start: "22:30", End: "05:00"}

	for _, clock := range []string{"23:00", "02:00", "22:30", "05:00"} {
		if !InWindow(w, clock) {
			t.Errorf("Expected %s inside wrapped window", clock)
		}
	}
	for _, clock := range []string{"10:00", "05:01", "22:29"} {
		if InWindow(w, clock) {
			t.Errorf("Expected %s outside wrapped window", clock)
		}
	}
}

func TestInWindowEmpty(t *testing.T) {
	if InWindow(store.Window{}, "10:00") {
		t.Error("Expected empty window to match nothing")
	}
}

func hoursCN(enabled bool) map[string]store.MarketConfig {
	return map[string]store.MarketConfig{
		"CN": {
			Enabled:   enabled,
			Weekdays:  []int{1, 2, 3, 4, 5},
			Morning:   &store.Window{Start: "09:30", End: "11:30"},
			Afternoon: &store.Window{Start: "13:00", End: "15:00"},
		},
	}
}

func TestIsTradingTime(t *testing.T) {
	// 2025-03-03 is a Monday.
	monday := func(h, m int) time.Time {
		return time.Date(2025, 3, 3, h, m, 0, 0, time.UTC)
	}

	hours := hoursCN(true)
	if !IsTradingTime("600519", hours, monday(10, 0)) {
		t.Error("Expected morning session open")
	}
	if IsTradingTime("600519", hours, monday(12, 0)) {
		t.Error("Expected lunch break closed")
	}
	if !IsTradingTime("600519", hours, monday(14, 30)) {
		t.Error("Expected afternoon session open")
	}
	if IsTradingTime("600519", hours, monday(15, 30)) {
		t.Error("Expected after close")
	}

	sunday := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	if IsTradingTime("600519", hours, sunday) {
		t.Error("Expected weekend closed")
	}
}

func TestIsTradingTimeUnconfigured(t *testing.T) {
	midnight := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	if !IsTradingTime("AAPL", hoursCN(true), midnight) {
		t.Error("Expected unconfigured market to never gate")
	}
	if !IsTradingTime("600519", hoursCN(false), midnight) {
		t.Error("Expected disabled market to never gate")
	}
	if !IsTradingTime("600519", nil, midnight) {
		t.Error("Expected nil hours to never gate")
	}
}

func TestAfterCutoff(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2025, 3, 3, h, m, 0, 0, time.UTC)
	}

	if AfterCutoff(at(15, 0), "15:01") {
		t.Error("Expected 15:00 before cutoff")
	}
	if !AfterCutoff(at(15, 1), "15:01") {
		t.Error("Expected 15:01 at cutoff")
	}
	if !AfterCutoff(at(16, 0), "15:01") {
		t.Error("Expected 16:00 after cutoff")
	}
	if AfterCutoff(at(23, 59), "bogus") {
		t.Error("Expected malformed cutoff to never suspend polling")
	}
}
