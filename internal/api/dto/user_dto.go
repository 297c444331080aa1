package dto

import (
	"time"

	"github.com/spec-kit/issue-reporting-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email         string      `json:"email"`
	Password      string      `json:"password"`
	FullName      string      `json:"full_name"`
	Role          domain.Role `json:"role"`
	Department    *string     `json:"department,omitempty"`
	StudentNumber *string     `json:"student_number,omitempty"`
	Phone         *string     `json:"phone,omitempty"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public account shape; no password hash leaves the
// service.
type UserResponse struct {
	ID            string      `json:"id"`
	Email         string      `json:"email"`
	FullName      string      `json:"full_name"`
	Role          domain.Role `json:"role"`
	Department    *string     `json:"department,omitempty"`
	StudentNumber *string     `json:"student_number,omitempty"`
	Phone         *string     `json:"phone,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}
