package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_WindowExhaustion(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	l := NewMemoryLimiter(10*time.Minute, clock)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res, err := l.Allow(ctx, "1.2.3.4", "request-reset", 5)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 4-i, res.Remaining)
	}

	res, err := l.Allow(ctx, "1.2.3.4", "request-reset", 5)
	require.NoError(t, err)
	assert.False(t, res.Allowed, "sixth request in the window must be rejected")
	assert.Equal(t, 10*time.Minute, res.RetryAfter)
}

func TestMemoryLimiter_WindowReset(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	l := NewMemoryLimiter(10*time.Minute, clock)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := l.Allow(ctx, "c", "confirm-reset", 3)
		require.NoError(t, err)
	}
	res, err := l.Allow(ctx, "c", "confirm-reset", 3)
	require.NoError(t, err)
	require.False(t, res.Allowed)

	// RetryAfter shrinks as the window ages.
	now = now.Add(6 * time.Minute)
	res, err = l.Allow(ctx, "c", "confirm-reset", 3)
	require.NoError(t, err)
	require.False(t, res.Allowed)
	assert.Equal(t, 4*time.Minute, res.RetryAfter)

	// Past the window boundary a fresh window opens.
	now = now.Add(4 * time.Minute)
	res, err = l.Allow(ctx, "c", "confirm-reset", 3)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)
}

func TestMemoryLimiter_IndependentKeysAndBuckets(t *testing.T) {
	t.Parallel()

	l := NewMemoryLimiter(10*time.Minute, nil)
	ctx := context.Background()

	// Exhaust one (key, bucket) pair.
	for i := 0; i < 4; i++ {
		_, err := l.Allow(ctx, "a", "confirm-reset", 3)
		require.NoError(t, err)
	}

	// A different client is unaffected.
	res, err := l.Allow(ctx, "b", "confirm-reset", 3)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	// The same client in another bucket is unaffected too.
	res, err = l.Allow(ctx, "a", "request-reset", 5)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
