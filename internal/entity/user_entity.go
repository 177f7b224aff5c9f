package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleManagement UserRole = "management"
	UserRoleAgent      UserRole = "agent"
)

// ValidUserRole reports whether r is one of the known global roles.
func ValidUserRole(r UserRole) bool {
	switch r {
	case UserRoleAdmin, UserRoleManagement, UserRoleAgent:
		return true
	}
	return false
}

type User struct {
	Id           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	FullName     string
	Role         UserRole
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
