// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"taskhub/internal/delivery/http/middleware"
	"taskhub/internal/delivery/http/response"
	"taskhub/internal/domain/entity"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// --- Request DTOs ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// --- Response views ---

// userView is the public projection of an account. The password hash and the
// stored refresh token never leave the server.
type userView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type authView struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         userView `json:"user"`
}

type refreshView struct {
	AccessToken string `json:"accessToken"`
}

func toUserView(user *entity.User) userView {
	return userView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt,
	}
}

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

// Register handles the account registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, authView{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User:         toUserView(output.User),
	}, "user registered successfully")
}

// Login handles the login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, authView{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User:         toUserView(output.User),
	}, "login successful")
}

// Refresh handles the access token refresh request.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "invalid refresh input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Refresh(c.Request().Context(), &usecase.RefreshInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, refreshView{
		AccessToken: output.AccessToken,
	}, "token refreshed successfully")
}

// Profile handles the request for the authenticated account's own record.
func (h *AuthHandler) Profile(c echo.Context) error {
	identity, err := middleware.IdentityFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	user, err := h.uc.Profile(c.Request().Context(), identity.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserView(user), "profile retrieved successfully")
}

// ListUsers handles the admin-only request for every account.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]userView, 0, len(users))
	for _, user := range users {
		views = append(views, toUserView(user))
	}

	return response.Success(c, http.StatusOK, views, "users retrieved successfully")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "service is healthy")
}
