package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is an in-process fixed-window limiter. It serves two roles:
// the fallback when no Redis client could be constructed at startup, and
// the deterministic vehicle for tests, which inject a fake clock through
// the now function. All window state sits behind one mutex; a bucket entry
// is a counter plus the instant its window opened.
type MemoryLimiter struct {
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*windowEntry
}

type windowEntry struct {
	count   int
	started time.Time
}

// NewMemoryLimiter returns a limiter using the given window for every
// bucket. A nil now defaults to time.Now.
func NewMemoryLimiter(window time.Duration, now func() time.Time) *MemoryLimiter {
	if now == nil {
		now = time.Now
	}
	return &MemoryLimiter{
		window:  window,
		now:     now,
		entries: make(map[string]*windowEntry),
	}
}

// Allow counts one request against (key, bucket) and checks it under limit.
func (l *MemoryLimiter) Allow(_ context.Context, key, bucket string, limit int) (Result, error) {
	mapKey := bucket + ":" + key
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[mapKey]
	if !ok || now.Sub(e.started) >= l.window {
		e = &windowEntry{started: now}
		l.entries[mapKey] = e
	}
	e.count++
	if e.count > limit {
		return Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: l.window - now.Sub(e.started),
		}, nil
	}
	return Result{Allowed: true, Remaining: limit - e.count}, nil
}
