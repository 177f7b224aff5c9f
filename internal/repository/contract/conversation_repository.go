package contract

import (
	"context"

	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	// UpsertDirect atomically finds or creates the direct conversation
	// for the unordered pair. Concurrent calls converge on one row.
	// Returns the conversation id and whether a new row was inserted.
	UpsertDirect(ctx context.Context, userA, userB uuid.UUID) (uuid.UUID, bool, error)
	// UpdateFields applies a partial update; only the supplied columns
	// change.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	TouchUpdatedAt(ctx context.Context, id uuid.UUID) error
	// ListOverviewsForUser returns one row per conversation the user
	// actively participates in, annotated with participants, last
	// message and the user's unread count, most recently updated first.
	ListOverviewsForUser(ctx context.Context, userId uuid.UUID) ([]*entity.ConversationOverview, error)
	// ListGroupOverviews returns every group conversation with member
	// and message counts, newest first.
	ListGroupOverviews(ctx context.Context) ([]*entity.GroupOverview, error)
}
