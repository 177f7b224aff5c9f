package implementation

import (
	"context"
	"errors"
	"time"

	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/mapper"
	"chatdesk-be/internal/model"
	"chatdesk-be/internal/pkg/apperr"
	"chatdesk-be/internal/repository/contract"
	"chatdesk-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *entity.Session) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		// The partial unique index on (user_id) WHERE is_active rejects
		// a second active row when two logins race past the
		// deactivate-all step.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperr.Conflict("account is already logged in elsewhere, log out there first")
		}
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	var m model.UserSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionRepositoryImpl) DeactivateAllForUser(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.UserSession{}).
		Where("user_id = ? AND is_active = ?", userId, true).
		Update("is_active", false).Error
}

func (r *SessionRepositoryImpl) DeactivateByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Model(&model.UserSession{}).
		Where("session_token = ?", token).
		Update("is_active", false).Error
}

func (r *SessionRepositoryImpl) TouchLastActivity(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.UserSession{}).
		Where("id = ?", id).
		Update("last_activity", at).Error
}

func (r *SessionRepositoryImpl) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.UserSession{}).
		Where("expires_at < ? AND is_active = ?", now, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
