package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/martinsedd/user-service/internal/config"
	"github.com/martinsedd/user-service/internal/handler"
	"github.com/martinsedd/user-service/internal/middleware"
	"github.com/martinsedd/user-service/internal/model"
	"github.com/martinsedd/user-service/internal/ratelimit"
)

// Register wires every route of the service onto the Echo instance.
//
// Three tiers of protection exist: open endpoints (register, login, the two
// reset endpoints — the latter behind their rate-limit buckets), endpoints
// requiring a session cookie (profile), and endpoints additionally
// requiring the admin role (user administration). The rate-limit buckets
// are independent: the request-reset cap does not consume confirm-reset
// budget and vice versa.
func Register(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler,
	cfg config.Config, rl config.RateLimitConfig, lim ratelimit.Limiter) {

	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Open endpoints.
	e.POST("/register", a.Register)
	e.POST("/login", a.Login)
	e.POST("/request-reset", a.RequestReset,
		middleware.RateLimit(lim, "request-reset", rl.RequestResetMax))
	e.PUT("/reset-password", a.ResetPassword,
		middleware.RateLimit(lim, "confirm-reset", rl.ConfirmResetMax))

	// Session-protected self-service endpoints.
	session := e.Group("", middleware.SessionAuth(cfg.JWTSecret))
	session.GET("/profile", u.Profile)
	session.PUT("/profile", u.UpdateProfile)

	// Admin-only user administration. RequireRole runs after SessionAuth.
	admin := e.Group("/users",
		middleware.SessionAuth(cfg.JWTSecret),
		middleware.RequireRole(model.RoleAdmin))
	admin.GET("", u.ListUsers)
	admin.DELETE("/:id", u.DeleteUser)
	admin.POST("/bulk-register", u.BulkRegister)
}
