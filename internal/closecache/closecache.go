// Package closecache persists previous-close prices per calendar date so a
// restart does not re-ask the provider for every symbol's baseline. One cache
// instance covers one date; the scheduler swaps instances at rollover.
package closecache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Cache is a date-scoped symbol→previous-close mapping with a memory layer
// over a single JSON file. Loading is lazy; the file is rewritten whenever a
// miss is resolved through the provider.
type Cache struct {
	mu     sync.Mutex
	dir    string
	date   string
	closes map[string]float64
	loaded bool
}

func New(dir, date string) *Cache {
	return &Cache{dir: dir, date: date, closes: map[string]float64{}}
}

// Date returns the calendar date this cache covers.
func (c *Cache) Date() string { return c.date }

func (c *Cache) path() string {
	return filepath.Join(c.dir, c.date+".json")
}

func (c *Cache) load() {
	if c.loaded {
		return
	}
	c.loaded = true
	b, err := os.ReadFile(c.path())
	if err != nil {
		return
	}
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return
	}
	c.closes = m
}

// Get returns the cached previous close for a symbol, consulting memory
// first and the per-date file on first access.
func (c *Cache) Get(code string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	v, ok := c.closes[code]
	return v, ok
}

// Put records a resolved previous close in memory and rewrites the file.
// The write is best-effort; a storage fault must never stop polling.
func (c *Cache) Put(code string, close float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	c.closes[code] = close

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c.closes, "", "  ")
	if err != nil {
		return err
	}
	tmp := c.path() + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path())
}
