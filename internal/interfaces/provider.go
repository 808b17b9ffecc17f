package interfaces

import (
	"context"

	"stock-monitor/internal/types"
)

// QuoteProvider is the market-data source the scheduler polls. Both calls
// are best-effort and latency-bounded; the caller treats every failure the
// same way (retain last known state).
type QuoteProvider interface {
	FetchQuote(ctx context.Context, symbol string) (types.Quote, error)
	FetchDailyBar(ctx context.Context, symbol string, date string) (types.DailyBar, error)
}
