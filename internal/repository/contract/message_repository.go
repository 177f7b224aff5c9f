package contract

import (
	"context"

	"chatdesk-be/internal/entity"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// FindPageWithSenders returns a page of non-deleted messages for
	// the conversation, newest first (offset 0 = most recent page).
	FindPageWithSenders(ctx context.Context, conversationId uuid.UUID, limit, offset int) ([]*entity.MessageWithSender, error)
	CountByConversation(ctx context.Context, conversationId uuid.UUID) (int64, error)
}
