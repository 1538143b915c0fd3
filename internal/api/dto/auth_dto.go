package dto

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// RegisterRequest payload for new citizens.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProfileResponse is the public view of an account.
type ProfileResponse struct {
	ID    string      `json:"id"`
	Name  *string     `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// SessionResponse wraps the caller profile and its token.
type SessionResponse struct {
	User ProfileResponse `json:"user"`
	Auth AuthResponse    `json:"auth"`
}
