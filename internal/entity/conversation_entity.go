package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ConversationType string

const (
	ConversationTypeDirect ConversationType = "direct"
	ConversationTypeGroup  ConversationType = "group"
)

type ParticipantRole string

const (
	ParticipantRoleAdmin     ParticipantRole = "admin"
	ParticipantRoleModerator ParticipantRole = "moderator"
	ParticipantRoleMember    ParticipantRole = "member"
)

type Conversation struct {
	Id          uuid.UUID
	Type        ConversationType
	Name        *string
	Description *string
	// DirectKey is the normalized unordered participant pair for direct
	// conversations ("" for groups). Unique-indexed so concurrent
	// first-contact converges on one row.
	DirectKey *string
	CreatedBy *uuid.UUID
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Participant joins a user to a conversation. Removal flips IsActive to
// false; re-adding reactivates the same row, keeping JoinedAt and
// LastReadAt intact.
type Participant struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	UserId         uuid.UUID
	Role           ParticipantRole
	JoinedAt       time.Time
	LastReadAt     *time.Time
	IsActive       bool
}

// DirectKey builds the canonical key for an unordered user pair.
// Both orders of the arguments yield the same key.
func DirectKey(a, b uuid.UUID) string {
	s1, s2 := a.String(), b.String()
	if strings.Compare(s1, s2) > 0 {
		s1, s2 = s2, s1
	}
	return fmt.Sprintf("%s:%s", s1, s2)
}
