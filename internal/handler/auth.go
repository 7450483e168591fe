package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/martinsedd/user-service/internal/config"
	"github.com/martinsedd/user-service/internal/middleware"
	"github.com/martinsedd/user-service/internal/model"
	"github.com/martinsedd/user-service/internal/repository"
	"github.com/martinsedd/user-service/internal/service"
	"github.com/martinsedd/user-service/internal/utils"
)

// validate checks request DTOs at the boundary; the struct tags carry the
// email-format and password-strength rules so the reset machine itself
// never sees malformed input.
var validate = validator.New()

const dateLayout = "2006-01-02"

// AuthHandler bundles dependencies for the unauthenticated endpoints:
// registration, login and both halves of the password-reset flow.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Reset *service.ResetService
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, r *service.ResetService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Reset: r}
}

// ----- DTOs -----

type registerReq struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	DOB       string `json:"dob" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type requestResetReq struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordReq struct {
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates a user account. Duplicate emails are a 400, matching the
// original API shape rather than 409.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Validation failed"})
	}
	dob, err := time.Parse(dateLayout, req.DOB)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid date of birth, expected YYYY-MM-DD"})
	}
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	_, err = h.Users.Create(ctx, model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		DOB:       dob,
		Role:      role,
	}, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "User already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "User created successfully"})
}

// Login verifies credentials and sets the session cookie. Unknown emails
// and wrong passwords produce the same response so the endpoint does not
// confirm which emails are registered.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid credentials"})
	}

	tok, err := utils.NewToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.SessionTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    tok.Token,
		Path:     "/",
		MaxAge:   int(h.Cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.Cfg.Env == "prod", // plain HTTP is fine in local/dev only
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged in successfully"})
}

// RequestReset opens a password-reset cycle and dispatches the reset link.
// Runs behind the request-reset rate-limit bucket.
func (h *AuthHandler) RequestReset(c echo.Context) error {
	var req requestResetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "A valid email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Reset.Request(ctx, req.Email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset link sent to your email"})
}

// ResetPassword confirms a reset cycle. The token arrives as a query
// parameter (it is pasted from the emailed link); the new password in the
// body. Runs behind the confirm-reset rate-limit bucket.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Token not provided"})
	}

	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Password must be at least 8 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	err := h.Reset.Confirm(ctx, token, req.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"message": "Password successfully updated"})
	case errors.Is(err, service.ErrTokenMissing):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Token not provided"})
	case errors.Is(err, service.ErrAccountLocked):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Account locked due to too many failed attempts, try again later"})
	case errors.Is(err, service.ErrTokenInvalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid or expired token"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
}
