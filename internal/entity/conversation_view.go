package entity

// ParticipantInfo is a participant row joined with its user's display
// fields.
type ParticipantInfo struct {
	Participant
	Username string
	FullName string
	Email    string
	UserRole UserRole
}

// MessageWithSender is a message row joined with the sender's display
// fields.
type MessageWithSender struct {
	Message
	SenderUsername string
	SenderFullName string
	SenderRole     UserRole
}

// ConversationOverview is the per-user conversation list row: the
// conversation plus its active participants, the single most recent
// non-deleted message, and the viewer's unread count.
type ConversationOverview struct {
	Conversation
	Participants []ParticipantInfo
	LastMessage  *MessageWithSender
	UnreadCount  int64
}

// GroupOverview annotates a group conversation for the admin listing.
type GroupOverview struct {
	Conversation
	Participants []ParticipantInfo
	MemberCount  int64
	MessageCount int64
}
