// Package ratelimit implements fixed-window request counting. A window of
// configurable duration is kept per (client key, bucket) pair; once the
// bucket's limit is reached every further request in the window is rejected
// immediately with the time remaining until the window resets. Two
// implementations exist: a Redis-backed limiter shared across instances and
// an in-process fallback used when Redis is unavailable and in tests.
package ratelimit

import (
	"context"
	"time"
)

// Result reports the outcome of a single Allow call.
type Result struct {
	Allowed    bool          // whether the request may proceed
	Remaining  int           // requests left in the current window
	RetryAfter time.Duration // time until the window resets; zero when allowed
}

// Limiter counts a request against the (key, bucket) pair and reports
// whether it fits under the given per-window limit. Counting and checking
// are one atomic step: a rejected request has already been counted, so
// hammering a full bucket never extends it.
type Limiter interface {
	Allow(ctx context.Context, key, bucket string, limit int) (Result, error)
}
