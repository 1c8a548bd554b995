package dto

import (
	"time"

	"github.com/spec-kit/bug-tracker/internal/domain"
)

// SignupRequest payload for self-registration.
type SignupRequest struct {
	FirstName string      `json:"firstname" form:"firstname"`
	LastName  string      `json:"lastname" form:"lastname"`
	Email     string      `json:"email" form:"email"`
	Password  string      `json:"password" form:"password"`
	Role      domain.Role `json:"role" form:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest payload for initiating reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest payload for confirming reset.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
