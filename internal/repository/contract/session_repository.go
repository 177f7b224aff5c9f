package contract

import (
	"context"
	"time"

	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	// DeactivateAllForUser marks every active session of the user
	// inactive. Callers pair it with Create inside one unit of work to
	// keep the single-active-session invariant.
	DeactivateAllForUser(ctx context.Context, userId uuid.UUID) error
	DeactivateByToken(ctx context.Context, token string) error
	TouchLastActivity(ctx context.Context, id uuid.UUID, at time.Time) error
	// DeactivateExpired batch-deactivates sessions past expiry and
	// returns how many rows were affected.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}
