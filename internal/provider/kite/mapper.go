package kite

import (
	"sync"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

// instrumentMapper caches the symbol→token and symbol→name mappings from
// the exchange instrument dump.
type instrumentMapper struct {
	mu     sync.RWMutex
	tokens map[string]int
	names  map[string]string
	filled bool
}

func newInstrumentMapper() *instrumentMapper {
	return &instrumentMapper{
		tokens: make(map[string]int),
		names:  make(map[string]string),
	}
}

func (im *instrumentMapper) loaded() bool {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.filled
}

func (im *instrumentMapper) fill(instruments kiteconnect.Instruments) {
	im.mu.Lock()
	defer im.mu.Unlock()
	for _, inst := range instruments {
		im.tokens[inst.Tradingsymbol] = inst.InstrumentToken
		if inst.Name != "" {
			im.names[inst.Tradingsymbol] = inst.Name
		}
	}
	im.filled = true
}

func (im *instrumentMapper) token(symbol string) (int, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	t, ok := im.tokens[symbol]
	return t, ok
}

// name returns the company name for a symbol, or the symbol itself before
// the instrument dump has been loaded.
func (im *instrumentMapper) name(symbol string) string {
	im.mu.RLock()
	defer im.mu.RUnlock()
	if n, ok := im.names[symbol]; ok {
		return n
	}
	return symbol
}
