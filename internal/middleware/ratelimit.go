package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/martinsedd/user-service/internal/ratelimit"
)

// RateLimit returns a middleware that counts each request against the named
// bucket, keyed by the caller's IP, and rejects with 429 once the bucket's
// per-window limit is exhausted. Rejected requests carry a Retry-After
// header with the seconds until the window resets. A nil limiter disables
// the middleware; a limiter error fails open so that a Redis outage does
// not take the reset endpoints down with it.
func RateLimit(l ratelimit.Limiter, bucket string, limit int) echo.MiddlewareFunc {
	if l == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if key == "" {
				key = "unknown"
			}
			res, err := l.Allow(c.Request().Context(), key, bucket, limit)
			if err != nil {
				c.Logger().Warnf("ratelimit: %s bucket check failed for %s: %v", bucket, key, err)
				return next(c)
			}

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

			if !res.Allowed {
				secs := int(math.Ceil(res.RetryAfter.Seconds()))
				if secs < 0 {
					secs = 0
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"message":     "Too many requests, please try again later",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}
