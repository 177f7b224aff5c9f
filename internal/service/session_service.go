package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/pkg/apperr"
	"chatdesk-be/internal/pkg/logger"
	"chatdesk-be/internal/repository/specification"
	"chatdesk-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// ISessionService is the session registry. It owns the rule that a user
// has at most one active session at any instant.
type ISessionService interface {
	GetActiveSession(ctx context.Context, userId uuid.UUID) (*entity.Session, error)
	CreateSession(ctx context.Context, userId uuid.UUID, deviceInfo, ipAddress string) (*entity.Session, error)
	VerifySession(ctx context.Context, token string) (*entity.Session, error)
	InvalidateSession(ctx context.Context, token string) error
	InvalidateAllUserSessions(ctx context.Context, userId uuid.UUID) error
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	ttl        time.Duration
	log        logger.ILogger
}

func NewSessionService(uowFactory unitofwork.RepositoryFactory, ttl time.Duration, log logger.ILogger) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		ttl:        ttl,
		log:        log,
	}
}

func generateSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *sessionService) GetActiveSession(ctx context.Context, userId uuid.UUID) (*entity.Session, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ActiveOnly{},
		specification.NotExpired{Now: time.Now()},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperr.Internal("failed to look up active session", err)
	}
	return session, nil
}

// CreateSession deactivates every prior session for the user and inserts
// the new one in a single transaction. The deactivate-then-insert pair
// alone does not exclude a concurrent login (each transaction's update
// misses the other's uncommitted insert); the partial unique index on
// active user_id is what makes the loser's insert fail, surfacing as a
// Conflict.
func (s *sessionService) CreateSession(ctx context.Context, userId uuid.UUID, deviceInfo, ipAddress string) (*entity.Session, error) {
	token, err := generateSessionToken()
	if err != nil {
		return nil, apperr.Internal("failed to generate session token", err)
	}

	now := time.Now()
	session := &entity.Session{
		Id:           uuid.New(),
		UserId:       userId,
		SessionToken: token,
		DeviceInfo:   deviceInfo,
		IpAddress:    ipAddress,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(s.ttl),
		IsActive:     true,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer uow.Rollback()

	if err := uow.SessionRepository().DeactivateAllForUser(ctx, userId); err != nil {
		return nil, apperr.Internal("failed to deactivate prior sessions", err)
	}
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			return nil, err
		}
		return nil, apperr.Internal("failed to create session", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit session", err)
	}

	return session, nil
}

// VerifySession resolves a session token to its live session, refreshing
// last_activity as a side effect. Returns nil when the token matches no
// active, unexpired session.
func (s *sessionService) VerifySession(ctx context.Context, token string) (*entity.Session, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx,
		specification.BySessionToken{Token: token},
		specification.ActiveOnly{},
		specification.NotExpired{Now: time.Now()},
	)
	if err != nil {
		return nil, apperr.Internal("failed to look up session", err)
	}
	if session == nil {
		return nil, nil
	}

	if err := uow.SessionRepository().TouchLastActivity(ctx, session.Id, time.Now()); err != nil {
		s.log.Warn("session", "failed to refresh last_activity", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	}
	return session, nil
}

func (s *sessionService) InvalidateSession(ctx context.Context, token string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SessionRepository().DeactivateByToken(ctx, token); err != nil {
		return apperr.Internal("failed to invalidate session", err)
	}
	return nil
}

func (s *sessionService) InvalidateAllUserSessions(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SessionRepository().DeactivateAllForUser(ctx, userId); err != nil {
		return apperr.Internal("failed to invalidate user sessions", err)
	}
	return nil
}

// CleanupExpiredSessions batch-deactivates sessions past expiry. Driven
// by the background ticker in the bootstrap container, never by request
// handlers.
func (s *sessionService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	affected, err := uow.SessionRepository().DeactivateExpired(ctx, time.Now())
	if err != nil {
		return 0, apperr.Internal("failed to clean up expired sessions", err)
	}
	if affected > 0 {
		s.log.Info("session", "expired sessions deactivated", map[string]interface{}{
			"count": affected,
		})
	}
	return affected, nil
}
