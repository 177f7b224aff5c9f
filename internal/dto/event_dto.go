package dto

import (
	"time"

	"github.com/google/uuid"
)

// ChatEventMessage is the bus payload emitted after a chat mutation.
type ChatEventMessage struct {
	EventType      string    `json:"event_type"`
	ConversationId uuid.UUID `json:"conversation_id"`
	MessageId      uuid.UUID `json:"message_id,omitempty"`
	ActorId        uuid.UUID `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

const (
	EventMessageSent        = "MESSAGE_SENT"
	EventConversationOpened = "CONVERSATION_OPENED"
	EventGroupCreated       = "GROUP_CREATED"
	EventGroupMemberAdded   = "GROUP_MEMBER_ADDED"
	EventGroupMemberRemoved = "GROUP_MEMBER_REMOVED"
)
