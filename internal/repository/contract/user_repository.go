package contract

import (
	"context"

	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	UpdateLastLogin(ctx context.Context, userId uuid.UUID) error
	UpdateRole(ctx context.Context, userId uuid.UUID, role entity.UserRole) error
	SetActive(ctx context.Context, userId uuid.UUID, active bool) error
}
