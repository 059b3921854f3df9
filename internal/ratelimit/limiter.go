// Package ratelimit admits requests per client key over a sliding window.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Limiter is a sliding-window log limiter keyed by client.
//
// Each key keeps the timestamps of its admitted requests inside the window.
// Histories are pruned lazily when their key is seen again; keys that stop
// arriving are never evicted, so memory grows with the number of distinct
// keys ever observed.
type Limiter struct {
	maxRequests int
	window      time.Duration
	now         func() time.Time

	mu       sync.Mutex
	requests map[string][]time.Time
}

// NewLimiter allows maxRequests per key within window. maxRequests below 1
// is treated as 1.
func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	if maxRequests < 1 {
		maxRequests = 1
	}
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		requests:    make(map[string][]time.Time),
	}
}

// WithClock replaces the time source. Intended for tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow records a request for key if it fits in the window.
//
// A rejected call returns the whole seconds until the oldest request leaves
// the window, never less than 1. An admitted call returns (true, 0).
func (l *Limiter) Allow(key string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	history := l.requests[key]
	drop := 0
	for drop < len(history) && history[drop].Before(cutoff) {
		drop++
	}
	if drop > 0 {
		history = append(history[:0], history[drop:]...)
	}

	if len(history) >= l.maxRequests {
		l.requests[key] = history
		wait := history[0].Add(l.window).Sub(now)
		retryAfter := int(math.Ceil(wait.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return false, retryAfter
	}

	l.requests[key] = append(history, now)
	return true, 0
}

// Keys reports how many client keys are tracked.
func (l *Limiter) Keys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.requests)
}
