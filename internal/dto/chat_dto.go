package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDirectRequest struct {
	OtherUserId uuid.UUID `json:"other_user_id" validate:"required"`
}

type CreateDirectResponse struct {
	ConversationId uuid.UUID `json:"conversation_id"`
}

type SendMessageRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	Content        string    `json:"content" validate:"required"`
	MessageType    string    `json:"message_type" validate:"omitempty"`
	FileURL        *string   `json:"file_url"`
}

type MessageSender struct {
	Id       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name,omitempty"`
	Role     string    `json:"role"`
}

type MessageResponse struct {
	Id             uuid.UUID      `json:"id"`
	ConversationId uuid.UUID      `json:"conversation_id"`
	SenderId       uuid.UUID      `json:"sender_id"`
	Content        string         `json:"content"`
	MessageType    string         `json:"message_type"`
	FileURL        *string        `json:"file_url,omitempty"`
	IsEdited       bool           `json:"is_edited"`
	CreatedAt      time.Time      `json:"created_at"`
	Sender         *MessageSender `json:"sender,omitempty"`
}

type ParticipantResponse struct {
	Id         uuid.UUID  `json:"id"`
	UserId     uuid.UUID  `json:"user_id"`
	Role       string     `json:"role"`
	Username   string     `json:"username"`
	FullName   string     `json:"full_name,omitempty"`
	UserRole   string     `json:"user_role"`
	JoinedAt   time.Time  `json:"joined_at"`
	LastReadAt *time.Time `json:"last_read_at,omitempty"`
}

type ConversationResponse struct {
	Id           uuid.UUID             `json:"id"`
	Type         string                `json:"type"`
	Name         *string               `json:"name,omitempty"`
	Description  *string               `json:"description,omitempty"`
	CreatedBy    *uuid.UUID            `json:"created_by,omitempty"`
	IsActive     bool                  `json:"is_active"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Participants []ParticipantResponse `json:"participants,omitempty"`
	LastMessage  *MessageResponse      `json:"last_message,omitempty"`
	UnreadCount  int64                 `json:"unread_count"`
}

type CreateGroupRequest struct {
	Name           string      `json:"name" validate:"required,max=255"`
	Description    string      `json:"description" validate:"omitempty"`
	ParticipantIds []uuid.UUID `json:"participant_ids"`
}

type UpdateGroupRequest struct {
	GroupId     uuid.UUID `json:"group_id" validate:"required"`
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	IsActive    *bool     `json:"is_active"`
}

type GroupMemberRequest struct {
	GroupId uuid.UUID `json:"group_id" validate:"required"`
	UserId  uuid.UUID `json:"user_id" validate:"required"`
}

type GroupResponse struct {
	ConversationResponse
	MemberCount  int64 `json:"member_count"`
	MessageCount int64 `json:"message_count"`
}
