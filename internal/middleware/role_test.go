package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRole(t *testing.T, role any, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set(ContextRole, role)
	}

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	require.NoError(t, RequireRole(allowed...)(next)(c))
	return rec
}

func TestRequireRole_Allowed(t *testing.T) {
	t.Parallel()

	rec := runRole(t, "admin", "admin")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_Disallowed(t *testing.T) {
	t.Parallel()

	rec := runRole(t, "user", "admin")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied, insufficient permissions")
}

func TestRequireRole_MissingRole(t *testing.T) {
	t.Parallel()

	rec := runRole(t, nil, "admin")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_WrongType(t *testing.T) {
	t.Parallel()

	rec := runRole(t, 123, "admin")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
