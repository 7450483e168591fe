package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var errUnexpectedReply = errors.New("ratelimit: unexpected script reply")

// RedisLimiter is a fixed-window limiter backed by a shared Redis instance,
// so the window survives process restarts and is enforced across replicas.
// The count-and-check runs as a single Lua script: INCR and the expiry are
// applied atomically, which keeps concurrent requests from the same client
// from slipping past the limit between a read and a write.
type RedisLimiter struct {
	rdb    *redis.Client
	window time.Duration
	prefix string
	script *redis.Script
}

// NewRedisLimiter returns a limiter using the given window for every
// bucket. The prefix namespaces keys in a shared Redis.
func NewRedisLimiter(rdb *redis.Client, window time.Duration, prefix string) *RedisLimiter {
	script := redis.NewScript(`
        local key = KEYS[1]
        local limit = tonumber(ARGV[1])
        local window_ms = tonumber(ARGV[2])

        local count = redis.call('INCR', key)
        if count == 1 then
            redis.call('PEXPIRE', key, window_ms)
        end
        local ttl = redis.call('PTTL', key)
        if ttl < 0 then
            redis.call('PEXPIRE', key, window_ms)
            ttl = window_ms
        end

        if count > limit then
            return { 0, 0, ttl }
        end
        return { 1, limit - count, ttl }
    `)
	return &RedisLimiter{rdb: rdb, window: window, prefix: prefix, script: script}
}

// Allow counts one request against (key, bucket) and checks it under limit.
func (l *RedisLimiter) Allow(ctx context.Context, key, bucket string, limit int) (Result, error) {
	redisKey := l.prefix + ":" + bucket + ":" + key
	vals, err := l.script.Run(ctx, l.rdb, []string{redisKey},
		limit, l.window.Milliseconds()).Result()
	if err != nil {
		return Result{}, err
	}
	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		return Result{}, errUnexpectedReply
	}
	res := Result{
		Allowed:   asInt64(arr[0]) == 1,
		Remaining: int(asInt64(arr[1])),
	}
	if !res.Allowed {
		res.RetryAfter = time.Duration(asInt64(arr[2])) * time.Millisecond
	}
	return res, nil
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	}
	return 0
}
