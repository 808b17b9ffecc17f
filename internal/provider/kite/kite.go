// Package kite implements the live quote provider on the Zerodha Kite REST
// API. Spot samples come from the quote endpoint (which also carries the
// previous close), daily bars from the historical-data endpoint. The
// scheduler owns pacing; this package only does the calls.
package kite

import (
	"context"
	"errors"
	"fmt"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"stock-monitor/internal/interfaces"
	"stock-monitor/internal/types"
)

type Params struct {
	APIKey      string
	AccessToken string
	Exchange    string
	Timeout     time.Duration
}

type Kite struct {
	p      Params
	kc     *kiteconnect.Client
	mapper *instrumentMapper
}

var _ interfaces.QuoteProvider = (*Kite)(nil)

func New(p Params) *Kite {
	kc := kiteconnect.New(p.APIKey)
	kc.SetAccessToken(p.AccessToken)
	if p.Timeout > 0 {
		kc.SetTimeout(p.Timeout)
	}
	if p.Exchange == "" {
		p.Exchange = "NSE"
	}
	return &Kite{p: p, kc: kc, mapper: newInstrumentMapper()}
}

func (k *Kite) instrument(symbol string) string {
	return fmt.Sprintf("%s:%s", k.p.Exchange, symbol)
}

// FetchQuote returns the current spot sample for a symbol. The provider's
// OHLC close field is the previous session's close; a zero value means the
// provider did not report one and the caller falls through its own cache
// chain.
func (k *Kite) FetchQuote(ctx context.Context, symbol string) (types.Quote, error) {
	inst := k.instrument(symbol)
	quotes, err := k.kc.GetQuote(inst)
	if err != nil {
		return types.Quote{}, fmt.Errorf("quote %s: %w", symbol, err)
	}
	data, ok := quotes[inst]
	if !ok {
		return types.Quote{}, fmt.Errorf("quote %s: %w", symbol, errNotFound)
	}

	asOf := data.Timestamp.Time
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return types.Quote{
		Symbol:    symbol,
		Name:      k.mapper.name(symbol),
		Price:     data.LastPrice,
		PrevClose: data.OHLC.Close,
		AsOf:      asOf,
	}, nil
}

// FetchDailyBar returns the end-of-day bar for one symbol and date
// (YYYY-MM-DD). The instrument dump is loaded lazily on first use to map
// the trading symbol to its numeric token.
func (k *Kite) FetchDailyBar(ctx context.Context, symbol string, date string) (types.DailyBar, error) {
	if err := k.ensureInstruments(); err != nil {
		return types.DailyBar{}, err
	}
	token, ok := k.mapper.token(symbol)
	if !ok {
		return types.DailyBar{}, fmt.Errorf("daily bar %s: %w", symbol, errNotFound)
	}

	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return types.DailyBar{}, fmt.Errorf("daily bar %s: bad date %q: %w", symbol, date, err)
	}
	bars, err := k.kc.GetHistoricalData(token, "day", day, day.Add(24*time.Hour-time.Second), false, false)
	if err != nil {
		return types.DailyBar{}, fmt.Errorf("daily bar %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return types.DailyBar{}, fmt.Errorf("daily bar %s: no data for %s: %w", symbol, date, errNotFound)
	}

	bar := bars[len(bars)-1]
	vol := float64(bar.Volume)
	return types.DailyBar{
		Open:   bar.Open,
		Close:  bar.Close,
		High:   bar.High,
		Low:    bar.Low,
		Volume: vol,
		// The Kite historical endpoint reports no turnover; approximate it
		// from close and volume so the snapshot field is populated.
		Amount: bar.Close * vol,
	}, nil
}

// ensureInstruments loads the exchange instrument dump once, building the
// symbol→token and symbol→company-name maps.
func (k *Kite) ensureInstruments() error {
	if k.mapper.loaded() {
		return nil
	}
	instruments, err := k.kc.GetInstrumentsByExchange(k.p.Exchange)
	if err != nil {
		return fmt.Errorf("load instruments for %s: %w", k.p.Exchange, err)
	}
	k.mapper.fill(instruments)
	return nil
}

var errNotFound = errors.New("not found")
