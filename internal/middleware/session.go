package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/martinsedd/user-service/internal/utils"
)

// SessionCookieName is the cookie carrying the session token. The login
// handler sets it and SessionAuth reads it back.
const SessionCookieName = "token"

// Context keys under which SessionAuth stores the verified identity.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// SessionAuth returns an Echo middleware that authenticates a request from
// its session cookie. The cookie value is a signed JWT; a missing cookie or
// a token that fails verification ends the request with 401. On success the
// subject ID and role are stored in the context for downstream handlers and
// the RequireRole middleware.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, no token"})
			}
			claims, err := utils.VerifyToken(secret, cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, token failed"})
			}
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextRole, claims.Role)
			return next(c)
		}
	}
}
