// Package ratelimit paces provider calls. All symbols share one Gate so the
// minimum spacing holds across the whole polling pass, not per symbol; a
// small random jitter is added to avoid looking like a metronome to a data
// provider without a formal rate-limit contract.
package ratelimit

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// ErrRateLimited marks an error the scheduler should treat with an extended
// backoff instead of the short retry sleep.
var ErrRateLimited = errors.New("provider rate limited")

// Gate enforces a minimum interval between consecutive acquisitions.
type Gate struct {
	mu          sync.Mutex
	minInterval time.Duration
	maxJitter   time.Duration
	last        time.Time
	rng         *rand.Rand
}

func NewGate(minInterval, maxJitter time.Duration) *Gate {
	return &Gate{
		minInterval: minInterval,
		maxJitter:   maxJitter,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Wait blocks until the minimum interval since the previous acquisition has
// elapsed, plus jitter. It returns early with the context error when the
// context is cancelled mid-wait.
func (g *Gate) Wait(ctx context.Context) error {
	g.mu.Lock()
	now := time.Now()
	var d time.Duration
	if !g.last.IsZero() {
		if elapsed := now.Sub(g.last); elapsed < g.minInterval {
			d = g.minInterval - elapsed
		}
	}
	if d > 0 && g.maxJitter > 0 {
		d += time.Duration(g.rng.Int63n(int64(g.maxJitter)))
	}
	g.last = now.Add(d)
	g.mu.Unlock()

	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Jitter returns a random duration in [0, maxJitter).
func (g *Gate) Jitter() time.Duration {
	if g.maxJitter <= 0 {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return time.Duration(g.rng.Int63n(int64(g.maxJitter)))
}

// IsRateLimited classifies an error as a rate-limit signal, either by the
// sentinel or heuristically by message content. Providers rarely expose a
// typed throttle error, so the message match mirrors what they actually send.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}
