package dto

import (
	"time"

	"github.com/spec-kit/bug-tracker/internal/domain"
)

// CreateUserRequest payload for admin-side account creation.
type CreateUserRequest struct {
	FirstName string      `json:"firstname" form:"firstname"`
	LastName  string      `json:"lastname" form:"lastname"`
	Email     string      `json:"email" form:"email"`
	Password  string      `json:"password" form:"password"`
	Role      domain.Role `json:"role" form:"role"`
}

// UpdateUserRequest payload for administrative partial updates.
type UpdateUserRequest struct {
	FirstName *string      `json:"firstname"`
	LastName  *string      `json:"lastname"`
	Email     *string      `json:"email"`
	Password  *string      `json:"password"`
	Role      *domain.Role `json:"role"`
}

// UpdateProfileRequest payload for self-service profile updates.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstname"`
	LastName  *string `json:"lastname"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID         string      `json:"id"`
	FirstName  string      `json:"firstname"`
	LastName   string      `json:"lastname"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	HasPicture bool        `json:"has_picture"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewUserResponse maps a domain user. The password hash never leaves the
// service and picture bytes are only served through dedicated endpoints.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Email:      user.Email,
		Role:       user.Role,
		HasPicture: user.Picture != nil,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

// NewUserResponses maps a slice of domain users.
func NewUserResponses(users []domain.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, NewUserResponse(&users[i]))
	}
	return result
}
