package service

import (
	"sync"
	"time"
)

// RateLimiter is a fixed-window per-key request limiter. The first request
// from a key opens a window; requests inside the window increment a
// counter, and once the counter reaches the maximum further requests are
// rejected without advancing it. The first request after the window
// deadline resets the counter to 1. Keys are fully independent.
//
// It is safe for concurrent use. Stale windows are cleaned up in the
// background.
type RateLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*window
	maxAttempts int
	windowSize  time.Duration
	now         func() time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates a limiter allowing maxAttempts requests per key
// within each window. It starts a background goroutine that periodically
// removes expired windows.
func NewRateLimiter(maxAttempts int, windowSize time.Duration) *RateLimiter {
	rl := NewRateLimiterWithClock(maxAttempts, windowSize, time.Now)
	go rl.cleanup()
	return rl
}

// NewRateLimiterWithClock is like NewRateLimiter but with an explicit
// clock and no background cleanup, for deterministic tests.
func NewRateLimiterWithClock(maxAttempts int, windowSize time.Duration, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		attempts:    make(map[string]*window),
		maxAttempts: maxAttempts,
		windowSize:  windowSize,
		now:         now,
	}
}

// Allow reports whether the given key may proceed. A rejected request has
// no side effect on the counter.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	w, ok := rl.attempts[key]
	if !ok {
		rl.attempts[key] = &window{count: 1, resetAt: now.Add(rl.windowSize)}
		return true
	}

	if now.After(w.resetAt) {
		w.count = 1
		w.resetAt = now.Add(rl.windowSize)
		return true
	}

	if w.count >= rl.maxAttempts {
		return false
	}

	w.count++
	return true
}

// cleanup runs periodically and removes windows whose deadline has passed.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		rl.mu.Lock()
		now := rl.now()
		for key, w := range rl.attempts {
			if now.After(w.resetAt) {
				delete(rl.attempts, key)
			}
		}
		rl.mu.Unlock()
	}
}
