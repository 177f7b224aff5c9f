package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_conv_created"`
	SenderId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Content        string    `gorm:"type:text;not null"`
	MessageType    string    `gorm:"type:varchar(20);not null;default:'text'"`
	FileURL        *string   `gorm:"type:text"`
	IsEdited       bool      `gorm:"not null;default:false"`
	IsDeleted      bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_messages_conv_created,sort:desc"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Message) TableName() string {
	return "messages"
}
