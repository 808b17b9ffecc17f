// Package snapshot persists the day's aggregate portfolio state to one file
// per calendar date. Today's file is overwritten every cycle so it always
// reflects the latest known state; a prior date is written exactly once at
// rollover. Writes go through a temp file and an atomic rename so an
// interrupt mid-write can never leave a truncated snapshot behind.
package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"stock-monitor/internal/interfaces"
	"stock-monitor/internal/logger"
	"stock-monitor/internal/types"
)

// SymbolRow is the per-symbol input to a snapshot write: the last known
// sample plus the derived position. Only symbols with a known price are
// passed in.
type SymbolRow struct {
	Code           string
	Name           string
	Price          float64
	ChangePct      float64
	UpdateLabel    string
	Quantity       float64
	CostPrice      *float64
	Transactions   []types.Transaction
	YesterdayClose *float64
}

// Persister writes one dated snapshot. Failures are best-effort from the
// caller's point of view: logged, never retried within the cycle, never
// fatal.
type Persister interface {
	Write(ctx context.Context, date string, rows []SymbolRow, funds types.Funds) error
}

// Kline is the optional end-of-day OHLCV detail embedded per symbol.
type Kline struct {
	Open   *float64 `json:"open"`
	Close  *float64 `json:"close"`
	High   *float64 `json:"high"`
	Low    *float64 `json:"low"`
	Volume *float64 `json:"volume"`
	Amount *float64 `json:"amount"`
}

// StockSnapshot is one symbol's record inside a daily snapshot file.
type StockSnapshot struct {
	Code            string              `json:"code"`
	Name            string              `json:"name"`
	Price           float64             `json:"price"`
	ChangePct       float64             `json:"change_pct"`
	UpdateTime      string              `json:"update_time"`
	HoldingPrice    *float64            `json:"holding_price"`
	HoldingQuantity float64             `json:"holding_quantity"`
	HoldingValue    *float64            `json:"holding_value"`
	Profit          *float64            `json:"profit"`
	YesterdayClose  *float64            `json:"yesterday_close"`
	Transactions    []types.Transaction `json:"transactions"`
	Kline           *Kline              `json:"kline"`
}

// FundsSummary aggregates the portfolio totals for one snapshot.
type FundsSummary struct {
	AvailableFunds     float64 `json:"available_funds"`
	TotalOriginalFunds float64 `json:"total_original_funds"`
	TotalAssets        float64 `json:"total_assets"`
	TotalHoldingValue  float64 `json:"total_holding_value"`
	TotalProfit        float64 `json:"total_profit"`
}

// DailySnapshot is the persisted per-date record.
type DailySnapshot struct {
	Date      string          `json:"date"`
	Timestamp string          `json:"timestamp"`
	Funds     FundsSummary    `json:"funds"`
	Stocks    []StockSnapshot `json:"stocks"`
}

// Writer persists daily snapshots under a history directory, resolving the
// canonical closing price through the provider's daily bar when obtainable.
type Writer struct {
	dir      string
	provider interfaces.QuoteProvider
	now      func() time.Time

	// Successful bar fetches are memoized per code@date: today's snapshot
	// is rewritten every cycle and must not turn into one provider call per
	// symbol per cycle. Failures are not memoized, matching the retry-next-
	// cycle behavior of the live-price fallback.
	bars map[string]types.DailyBar
}

var _ Persister = (*Writer)(nil)

func NewWriter(dir string, provider interfaces.QuoteProvider) *Writer {
	return &Writer{
		dir:      dir,
		provider: provider,
		now:      time.Now,
		bars:     map[string]types.DailyBar{},
	}
}

func (w *Writer) path(date string) string {
	return filepath.Join(w.dir, date+".json")
}

// Write builds and persists the snapshot for one date. The canonical close
// per symbol prefers the provider's end-of-day bar for that date and falls
// back to the last known live price.
func (w *Writer) Write(ctx context.Context, date string, rows []SymbolRow, funds types.Funds) error {
	timer := logger.StartOperation(ctx, "snapshot.write", "date", date, "symbols", len(rows))
	ctx = timer.GetContext()

	var totalHoldingValue, totalProfit float64
	stocks := make([]StockSnapshot, 0, len(rows))

	for _, row := range rows {
		kline, closePrice := w.resolveClose(ctx, row, date)

		ss := StockSnapshot{
			Code:            row.Code,
			Name:            row.Name,
			Price:           closePrice,
			ChangePct:       row.ChangePct,
			UpdateTime:      row.UpdateLabel,
			HoldingPrice:    row.CostPrice,
			HoldingQuantity: row.Quantity,
			YesterdayClose:  row.YesterdayClose,
			Transactions:    row.Transactions,
			Kline:           kline,
		}
		if row.Quantity > 0 {
			hv := closePrice * row.Quantity
			ss.HoldingValue = &hv
			totalHoldingValue += hv
			if row.CostPrice != nil {
				profit := (closePrice - *row.CostPrice) * row.Quantity
				ss.Profit = &profit
				totalProfit += profit
			}
		}
		stocks = append(stocks, ss)
	}

	snap := DailySnapshot{
		Date:      date,
		Timestamp: w.now().Format(time.RFC3339Nano),
		Funds: FundsSummary{
			AvailableFunds:     funds.AvailableFunds,
			TotalOriginalFunds: funds.TotalOriginalFunds,
			TotalAssets:        funds.AvailableFunds + totalHoldingValue,
			TotalHoldingValue:  totalHoldingValue,
			TotalProfit:        totalProfit,
		},
		Stocks: stocks,
	}
	if err := w.persist(date, snap); err != nil {
		timer.EndWithError(err)
		return err
	}
	timer.End()
	return nil
}

// resolveClose returns the kline detail and the close used for valuation:
// the provider's bar close for the date when obtainable, else the last live
// price with a close-only kline.
func (w *Writer) resolveClose(ctx context.Context, row SymbolRow, date string) (*Kline, float64) {
	key := row.Code + "@" + date
	bar, ok := w.bars[key]
	if !ok {
		fetched, err := w.provider.FetchDailyBar(ctx, row.Code, date)
		if err != nil || fetched.Close <= 0 {
			c := row.Price
			return &Kline{Close: &c}, row.Price
		}
		w.bars[key] = fetched
		bar = fetched
	}
	o, c, h, l, v, a := bar.Open, bar.Close, bar.High, bar.Low, bar.Volume, bar.Amount
	return &Kline{Open: &o, Close: &c, High: &h, Low: &l, Volume: &v, Amount: &a}, bar.Close
}

func (w *Writer) persist(date string, snap DailySnapshot) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp := w.path(date) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, w.path(date))
}
