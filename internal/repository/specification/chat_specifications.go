package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByConversation struct {
	ConversationID uuid.UUID
}

func (s ByConversation) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

type ByConversationType struct {
	Type string
}

func (s ByConversationType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}

// NotDeleted filters out soft-deleted messages.
type NotDeleted struct{}

func (s NotDeleted) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}
