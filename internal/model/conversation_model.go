package model

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type        string    `gorm:"type:varchar(20);not null"`
	Name        *string   `gorm:"type:varchar(255)"`
	Description *string   `gorm:"type:text"`
	// Normalized "minId:maxId" pair for direct conversations, NULL for
	// groups. The unique index is what makes find-or-create race-safe.
	DirectKey *string    `gorm:"type:varchar(80);uniqueIndex"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	IsActive  bool       `gorm:"not null;default:true"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime;index:idx_conversations_updated,sort:desc"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type ConversationParticipant struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_participants_conv_user"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_participants_conv_user;index"`
	Role           string    `gorm:"type:varchar(20);not null;default:'member'"`
	JoinedAt       time.Time `gorm:"not null;default:now()"`
	LastReadAt     *time.Time
	IsActive       bool `gorm:"not null;default:true"`
}

func (ConversationParticipant) TableName() string {
	return "conversation_participants"
}
