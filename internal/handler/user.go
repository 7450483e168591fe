package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/martinsedd/user-service/internal/config"
	"github.com/martinsedd/user-service/internal/middleware"
	"github.com/martinsedd/user-service/internal/model"
	"github.com/martinsedd/user-service/internal/repository"
)

// UserHandler bundles dependencies for the session-protected endpoints:
// self profile and the admin-only user administration.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u}
}

// userResponse is the public shape of a user record. The password hash is
// deliberately not part of it.
type userResponse struct {
	ID        uint64    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	DOB       string    `json:"dob"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		DOB:       u.DOB.UTC().Format(dateLayout),
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type updateProfileReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"omitempty,email"`
	DOB       string `json:"dob"`
}

// Profile returns the identity attached to the session.
func (h *UserHandler) Profile(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"id":      c.Get(middleware.ContextUserID),
		"role":    c.Get(middleware.ContextRole),
		"message": "This is your profile",
	})
}

// UpdateProfile applies the self-service profile fields. Empty fields keep
// their stored values. The password column is never touched here, so the
// stored hash is not recomputed on profile edits.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, ok := c.Get(middleware.ContextUserID).(uint64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, token failed"})
	}

	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Validation failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	if v := strings.TrimSpace(req.FirstName); v != "" {
		u.FirstName = v
	}
	if v := strings.TrimSpace(req.LastName); v != "" {
		u.LastName = v
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		u.Email = v
	}
	if v := strings.TrimSpace(req.DOB); v != "" {
		dob, err := time.Parse(dateLayout, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid date of birth, expected YYYY-MM-DD"})
		}
		u.DOB = dob
	}

	if err := h.Users.UpdateProfile(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "User already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile updated",
		"user":    toUserResponse(u),
	})
}

// ListUsers returns every user without the password field. Admin only.
func (h *UserHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteUser removes a user by id. Admin only.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User removed successfully"})
}

// bulkResult is the per-item outcome of a bulk registration.
type bulkResult struct {
	Email   string `json:"email"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// BulkRegister registers an array of users, isolating failures per item:
// one bad or duplicate entry never aborts the batch. Admin only.
func (h *UserHandler) BulkRegister(c echo.Context) error {
	var reqs []registerReq
	if err := c.Bind(&reqs); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	results := make([]bulkResult, 0, len(reqs))
	for _, req := range reqs {
		req.Email = strings.TrimSpace(req.Email)
		if err := validate.Struct(req); err != nil {
			results = append(results, bulkResult{Email: req.Email, Status: "failed", Message: "Validation failed"})
			continue
		}
		dob, err := time.Parse(dateLayout, req.DOB)
		if err != nil {
			results = append(results, bulkResult{Email: req.Email, Status: "failed", Message: "Invalid date of birth, expected YYYY-MM-DD"})
			continue
		}
		role := req.Role
		if role == "" {
			role = model.RoleUser
		}
		_, err = h.Users.Create(ctx, model.User{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			DOB:       dob,
			Role:      role,
		}, req.Password, h.Cfg.BcryptCost)
		switch {
		case err == nil:
			results = append(results, bulkResult{Email: req.Email, Status: "success", Message: "User created successfully"})
		case errors.Is(err, repository.ErrEmailExists):
			results = append(results, bulkResult{Email: req.Email, Status: "failed", Message: "User already exists"})
		default:
			results = append(results, bulkResult{Email: req.Email, Status: "failed", Message: "Server error"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Bulk user registration complete",
		"results": results,
	})
}
