package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeFile   MessageType = "file"
	MessageTypeImage  MessageType = "image"
	MessageTypeSystem MessageType = "system"
)

func ValidMessageType(t MessageType) bool {
	switch t {
	case MessageTypeText, MessageTypeFile, MessageTypeImage, MessageTypeSystem:
		return true
	}
	return false
}

// Message is immutable once sent apart from the edit/delete flags.
// Soft-deleted messages stay in storage but are filtered from every read.
type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	SenderId       uuid.UUID
	Content        string
	MessageType    MessageType
	FileURL        *string
	IsEdited       bool
	IsDeleted      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
