package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinsedd/user-service/internal/utils"
)

const testSecret = "test-secret"

func runSession(t *testing.T, cookie *http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	require.NoError(t, SessionAuth(testSecret)(next)(c))
	return rec, c
}

func TestSessionAuth_NoCookie(t *testing.T) {
	t.Parallel()

	rec, _ := runSession(t, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authorized, no token")
}

func TestSessionAuth_BadToken(t *testing.T) {
	t.Parallel()

	rec, _ := runSession(t, &http.Cookie{Name: SessionCookieName, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authorized, token failed")
}

func TestSessionAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewToken(testSecret, 1, "user", -time.Minute)
	require.NoError(t, err)

	rec, _ := runSession(t, &http.Cookie{Name: SessionCookieName, Value: tok.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuth_ForeignSignature(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewToken("another-secret", 1, "user", time.Hour)
	require.NoError(t, err)

	rec, _ := runSession(t, &http.Cookie{Name: SessionCookieName, Value: tok.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuth_ValidToken_AttachesIdentity(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewToken(testSecret, 42, "admin", time.Hour)
	require.NoError(t, err)

	rec, c := runSession(t, &http.Cookie{Name: SessionCookieName, Value: tok.Token})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), c.Get(ContextUserID))
	assert.Equal(t, "admin", c.Get(ContextRole))
}
