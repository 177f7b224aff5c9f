package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse is the wire shape for a user. The password hash is
// deliberately absent.
type UserResponse struct {
	Id          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name,omitempty"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProfileResponse is built from token claims only.
type ProfileResponse struct {
	Id       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

type ChatUserResponse struct {
	Id       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	FullName string    `json:"full_name,omitempty"`
	Role     string    `json:"role"`
}

type UpdateUserRoleRequest struct {
	UserId uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role" validate:"required"`
}

type SetUserActiveRequest struct {
	UserId   uuid.UUID `json:"user_id" validate:"required"`
	IsActive bool      `json:"is_active"`
}
