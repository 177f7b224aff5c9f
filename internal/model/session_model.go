package model

import (
	"time"

	"github.com/google/uuid"
)

type UserSession struct {
	Id     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// The partial unique index is the storage-level arbiter of the
	// one-active-session rule: a second concurrent insert fails with a
	// unique violation instead of committing a second active row.
	UserId       uuid.UUID `gorm:"type:uuid;not null;index;index:idx_user_sessions_one_active,unique,where:is_active = true"`
	SessionToken string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	DeviceInfo   string    `gorm:"type:text"`
	IpAddress    string    `gorm:"type:varchar(45)"`
	LastActivity time.Time `gorm:"not null;default:now()"`
	ExpiresAt    time.Time `gorm:"not null;index"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}
