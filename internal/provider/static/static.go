// Package static is the DRY_RUN quote provider: a bounded random walk per
// symbol, no network. It lets the whole engine/scheduler/persistence path
// run and be demoed without provider credentials.
package static

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"stock-monitor/internal/interfaces"
	"stock-monitor/internal/types"
)

type Static struct {
	mu     sync.Mutex
	rng    *rand.Rand
	prices map[string]float64
	bases  map[string]float64
}

var _ interfaces.QuoteProvider = (*Static)(nil)

func New() *Static {
	return &Static{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		prices: map[string]float64{},
		bases:  map[string]float64{},
	}
}

// basePrice derives a stable starting price from the symbol name so runs
// look plausible without configuration.
func basePrice(symbol string) float64 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return 20 + float64(h.Sum32()%980)
}

func (s *Static) FetchQuote(ctx context.Context, symbol string) (types.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base, ok := s.bases[symbol]
	if !ok {
		base = basePrice(symbol)
		s.bases[symbol] = base
		s.prices[symbol] = base
	}
	price := s.prices[symbol]
	price += price * (s.rng.Float64() - 0.5) * 0.01
	if price < 1 {
		price = 1
	}
	s.prices[symbol] = price

	return types.Quote{
		Symbol:    symbol,
		Name:      symbol,
		Price:     price,
		PrevClose: base,
		AsOf:      time.Now(),
	}, nil
}

func (s *Static) FetchDailyBar(ctx context.Context, symbol string, date string) (types.DailyBar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	price, ok := s.prices[symbol]
	if !ok {
		price = basePrice(symbol)
	}
	spread := price * 0.02
	vol := s.rng.Float64() * 1e6
	return types.DailyBar{
		Open:   price - spread/2,
		Close:  price,
		High:   price + spread,
		Low:    price - spread,
		Volume: vol,
		Amount: price * vol,
	}, nil
}
