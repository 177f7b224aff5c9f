package contract

import (
	"context"

	"chatdesk-be/internal/entity"

	"github.com/google/uuid"
)

type ParticipantRepository interface {
	CreateBatch(ctx context.Context, participants []*entity.Participant) error
	// IsActiveMember reports whether the user is an active participant
	// of the conversation.
	IsActiveMember(ctx context.Context, conversationId, userId uuid.UUID) (bool, error)
	// Upsert inserts the participant or, when a row for the pair
	// already exists, reactivates it in place. JoinedAt and LastReadAt
	// of the original row are preserved.
	Upsert(ctx context.Context, participant *entity.Participant) error
	Deactivate(ctx context.Context, conversationId, userId uuid.UUID) error
	UpdateLastRead(ctx context.Context, conversationId, userId uuid.UUID) error
	FindActiveWithUsers(ctx context.Context, conversationId uuid.UUID) ([]*entity.ParticipantInfo, error)
}
