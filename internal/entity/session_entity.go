package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is one logged-in device for one user. Invariant: at most one
// session per user has IsActive=true at any instant; CreateSession
// deactivates all prior sessions in the same transaction.
type Session struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	SessionToken string
	DeviceInfo   string
	IpAddress    string
	CreatedAt    time.Time
	LastActivity time.Time
	ExpiresAt    time.Time
	IsActive     bool
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
