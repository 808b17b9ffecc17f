package providerobs

import (
	"context"

	"stock-monitor/internal/interfaces"
	"stock-monitor/internal/logger"
	"stock-monitor/internal/trace"
	"stock-monitor/internal/types"
)

// observableProvider wraps a QuoteProvider with observability (logging & tracing)
type observableProvider struct {
	provider interfaces.QuoteProvider
}

// Compile-time interface check
var _ interfaces.QuoteProvider = (*observableProvider)(nil)

// Wrap wraps a quote provider with observability middleware
func Wrap(provider interfaces.QuoteProvider) interfaces.QuoteProvider {
	return &observableProvider{
		provider: provider,
	}
}

// FetchQuote fetches a spot quote with observability
func (op *observableProvider) FetchQuote(ctx context.Context, symbol string) (types.Quote, error) {
	ctx, span := trace.StartSpan(ctx, "provider.FetchQuote")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching quote", "symbol", symbol)

	q, err := op.provider.FetchQuote(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch quote", err, "symbol", symbol)
		return types.Quote{}, err
	}

	logger.DebugSkip(ctx, 1, "Quote fetched successfully",
		"symbol", symbol,
		"price", q.Price,
		"prev_close", q.PrevClose,
	)
	return q, nil
}

// FetchDailyBar fetches an end-of-day bar with observability
func (op *observableProvider) FetchDailyBar(ctx context.Context, symbol string, date string) (types.DailyBar, error) {
	ctx, span := trace.StartSpan(ctx, "provider.FetchDailyBar")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching daily bar", "symbol", symbol, "date", date)

	bar, err := op.provider.FetchDailyBar(ctx, symbol, date)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch daily bar", err, "symbol", symbol, "date", date)
		return types.DailyBar{}, err
	}

	logger.DebugSkip(ctx, 1, "Daily bar fetched successfully",
		"symbol", symbol,
		"date", date,
		"close", bar.Close,
	)
	return bar, nil
}
