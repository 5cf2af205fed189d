package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/heardesk/complaint-service/internal/api/dto"
	"github.com/heardesk/complaint-service/internal/domain"
	"github.com/heardesk/complaint-service/internal/service"
	apperrors "github.com/heardesk/complaint-service/pkg/util"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	user, token, exp, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(authPayload(user, token, exp))
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(authPayload(user, token, exp))
}

// AdminLogin handles POST /auth/admin/login.
func (h *UsersHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, exp, err := h.auth.LoginAdmin(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(authPayload(user, token, exp))
}

func authPayload(user *domain.User, token string, exp time.Time) fiber.Map {
	return fiber.Map{
		"data": fiber.Map{
			"user": dto.UserResponse{
				ID:          user.ID,
				Email:       user.Email,
				DisplayName: user.DisplayName,
				Role:        user.Role,
				CreatedAt:   user.CreatedAt,
				LastLoginAt: user.LastLoginAt,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	}
}
