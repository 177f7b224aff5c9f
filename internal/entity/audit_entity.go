package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry records a security-relevant event (login, session conflict,
// role change, group mutation) for the admin trail.
type AuditEntry struct {
	Id        uuid.UUID
	Level     string
	Module    string
	Message   string
	Details   map[string]interface{}
	CreatedAt time.Time
}
