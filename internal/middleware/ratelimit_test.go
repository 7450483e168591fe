package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinsedd/user-service/internal/ratelimit"
)

func hitLimited(t *testing.T, mw echo.MiddlewareFunc, ip string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/request-reset", nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	require.NoError(t, mw(next)(c))
	return rec
}

func TestRateLimit_RejectsAboveLimit(t *testing.T) {
	t.Parallel()

	lim := ratelimit.NewMemoryLimiter(10*time.Minute, nil)
	mw := RateLimit(lim, "request-reset", 2)

	assert.Equal(t, http.StatusOK, hitLimited(t, mw, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hitLimited(t, mw, "10.0.0.1").Code)

	rec := hitLimited(t, mw, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "Too many requests")

	// A different client is unaffected.
	assert.Equal(t, http.StatusOK, hitLimited(t, mw, "10.0.0.2").Code)
}

func TestRateLimit_SetsHeaders(t *testing.T) {
	t.Parallel()

	lim := ratelimit.NewMemoryLimiter(10*time.Minute, nil)
	mw := RateLimit(lim, "confirm-reset", 3)

	rec := hitLimited(t, mw, "10.0.0.3")
	assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_NilLimiterPassesThrough(t *testing.T) {
	t.Parallel()

	mw := RateLimit(nil, "request-reset", 1)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hitLimited(t, mw, "10.0.0.4").Code)
	}
}
