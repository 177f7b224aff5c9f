package unitofwork

import (
	"context"

	"chatdesk-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one logical operation. Begin
// routes subsequent repository calls through a single transaction until
// Commit or Rollback.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionRepository() contract.SessionRepository
	ConversationRepository() contract.ConversationRepository
	ParticipantRepository() contract.ParticipantRepository
	MessageRepository() contract.MessageRepository
	SystemLogRepository() contract.SystemLogRepository
}
