// Package market decides when polling is allowed: per-market trading windows
// on configured weekdays, and the daily cutoff after which provider calls
// stop entirely.
package market

import (
	"fmt"
	"time"

	"stock-monitor/internal/store"
)

// Classify maps a symbol code to its market name. Codes that are entirely
// letters are treated as US tickers; numeric codes as mainland A-shares.
func Classify(code string) string {
	if code == "" {
		return "CN"
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return "CN"
		}
	}
	if len(code) > 5 {
		return "CN"
	}
	return "US"
}

// InWindow reports whether a HH:MM clock value falls inside a window.
// A window whose start is after its end wraps past midnight: [start,24:00)
// plus [00:00,end].
func InWindow(w store.Window, clock string) bool {
	if w.Start == "" || w.End == "" {
		return false
	}
	if w.Start > w.End {
		return clock >= w.Start || clock <= w.End
	}
	return clock >= w.Start && clock <= w.End
}

// IsTradingTime reports whether a symbol's market is open at the given time.
// A market with no configuration, or one not enabled, does not gate polling.
func IsTradingTime(code string, hours map[string]store.MarketConfig, now time.Time) bool {
	mc, ok := hours[Classify(code)]
	if !ok || !mc.Enabled {
		return true
	}

	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday is 7 in the config schema
	}
	allowed := mc.Weekdays
	if len(allowed) == 0 {
		allowed = []int{1, 2, 3, 4, 5}
	}
	dayOK := false
	for _, d := range allowed {
		if d == weekday {
			dayOK = true
			break
		}
	}
	if !dayOK {
		return false
	}

	clock := now.Format("15:04")
	if mc.Morning != nil && InWindow(*mc.Morning, clock) {
		return true
	}
	if mc.Afternoon != nil && InWindow(*mc.Afternoon, clock) {
		return true
	}
	return false
}

// AfterCutoff reports whether the time of day has passed the polling cutoff
// (e.g. "15:01"). A malformed cutoff never suspends polling.
func AfterCutoff(now time.Time, cutoff string) bool {
	var h, m int
	if _, err := fmt.Sscanf(cutoff, "%d:%d", &h, &m); err != nil {
		return false
	}
	if now.Hour() > h {
		return true
	}
	return now.Hour() == h && now.Minute() >= m
}
