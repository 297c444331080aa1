package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/issue-reporting-service/internal/api/dto"
	"github.com/spec-kit/issue-reporting-service/internal/domain"
	"github.com/spec-kit/issue-reporting-service/internal/service"
	apperrors "github.com/spec-kit/issue-reporting-service/pkg/util"
)

// UsersHandler exposes registration and login endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, exp, err := h.auth.Register(c.Context(), service.RegisterInput{
		Email:         req.Email,
		Password:      req.Password,
		FullName:      req.FullName,
		Role:          req.Role,
		Department:    req.Department,
		StudentNumber: req.StudentNumber,
		Phone:         req.Phone,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.AuthResponse{
			User:      userResponse(user),
			Token:     token,
			ExpiresAt: exp,
		},
	})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
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

	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{
			User:      userResponse(user),
			Token:     token,
			ExpiresAt: exp,
		},
	})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FullName:      user.FullName,
		Role:          user.Role,
		Department:    user.Department,
		StudentNumber: user.StudentNumber,
		Phone:         user.Phone,
		CreatedAt:     user.CreatedAt,
	}
}
