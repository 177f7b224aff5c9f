package mapper

import (
	"chatdesk-be/internal/dto"
	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}
	return &entity.Conversation{
		Id:          c.Id,
		Type:        entity.ConversationType(c.Type),
		Name:        c.Name,
		Description: c.Description,
		DirectKey:   c.DirectKey,
		CreatedBy:   c.CreatedBy,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *ChatMapper) ConversationToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}
	return &model.Conversation{
		Id:          c.Id,
		Type:        string(c.Type),
		Name:        c.Name,
		Description: c.Description,
		DirectKey:   c.DirectKey,
		CreatedBy:   c.CreatedBy,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *ChatMapper) ParticipantToEntity(p *model.ConversationParticipant) *entity.Participant {
	if p == nil {
		return nil
	}
	return &entity.Participant{
		Id:             p.Id,
		ConversationId: p.ConversationId,
		UserId:         p.UserId,
		Role:           entity.ParticipantRole(p.Role),
		JoinedAt:       p.JoinedAt,
		LastReadAt:     p.LastReadAt,
		IsActive:       p.IsActive,
	}
}

func (m *ChatMapper) ParticipantToModel(p *entity.Participant) *model.ConversationParticipant {
	if p == nil {
		return nil
	}
	return &model.ConversationParticipant{
		Id:             p.Id,
		ConversationId: p.ConversationId,
		UserId:         p.UserId,
		Role:           string(p.Role),
		JoinedAt:       p.JoinedAt,
		LastReadAt:     p.LastReadAt,
		IsActive:       p.IsActive,
	}
}

func (m *ChatMapper) MessageToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		SenderId:       msg.SenderId,
		Content:        msg.Content,
		MessageType:    entity.MessageType(msg.MessageType),
		FileURL:        msg.FileURL,
		IsEdited:       msg.IsEdited,
		IsDeleted:      msg.IsDeleted,
		CreatedAt:      msg.CreatedAt,
		UpdatedAt:      msg.UpdatedAt,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}
	return &model.Message{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		SenderId:       msg.SenderId,
		Content:        msg.Content,
		MessageType:    string(msg.MessageType),
		FileURL:        msg.FileURL,
		IsEdited:       msg.IsEdited,
		IsDeleted:      msg.IsDeleted,
		CreatedAt:      msg.CreatedAt,
		UpdatedAt:      msg.UpdatedAt,
	}
}

func (m *ChatMapper) MessagesToEntities(msgs []*model.Message) []*entity.Message {
	entities := make([]*entity.Message, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.MessageToEntity(msg)
	}
	return entities
}

func (m *ChatMapper) MessageToResponse(msg *entity.Message) dto.MessageResponse {
	return dto.MessageResponse{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		SenderId:       msg.SenderId,
		Content:        msg.Content,
		MessageType:    string(msg.MessageType),
		FileURL:        msg.FileURL,
		IsEdited:       msg.IsEdited,
		CreatedAt:      msg.CreatedAt,
	}
}
