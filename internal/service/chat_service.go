package service

import (
	"context"
	"encoding/json"
	"time"

	"chatdesk-be/internal/dto"
	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/mapper"
	"chatdesk-be/internal/pkg/apperr"
	"chatdesk-be/internal/pkg/logger"
	"chatdesk-be/internal/repository/specification"
	"chatdesk-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	defaultMessagePageSize = 50
	maxMessagePageSize     = 100
)

type IChatService interface {
	// GetUserConversations lists the conversations the user actively
	// participates in, most recently updated first.
	GetUserConversations(ctx context.Context, userId uuid.UUID) ([]dto.ConversationResponse, error)
	// CreateDirectConversation finds or creates the direct conversation
	// between the caller and the other user. Idempotent and race-safe.
	CreateDirectConversation(ctx context.Context, userId uuid.UUID, req *dto.CreateDirectRequest) (*dto.CreateDirectResponse, error)
	// GetConversationMessages returns a page of messages in chronological
	// order (offset 0 = the most recent page) and stamps the caller's
	// last_read_at as a side effect.
	GetConversationMessages(ctx context.Context, userId, conversationId uuid.UUID, limit, offset int) ([]dto.MessageResponse, error)
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	chatMapper       *mapper.ChatMapper
	log              logger.ILogger
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService, log logger.ILogger) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		chatMapper:       mapper.NewChatMapper(),
		log:              log,
	}
}

func (s *chatService) publishEvent(ctx context.Context, event dto.ChatEventMessage) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Warn("chat", "failed to marshal chat event", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("chat", "failed to publish chat event", map[string]interface{}{
			"event_type": event.EventType,
			"error":      err.Error(),
		})
	}
}

func participantToResponse(p *entity.ParticipantInfo) dto.ParticipantResponse {
	return dto.ParticipantResponse{
		Id:         p.Id,
		UserId:     p.UserId,
		Role:       string(p.Role),
		Username:   p.Username,
		FullName:   p.FullName,
		UserRole:   string(p.UserRole),
		JoinedAt:   p.JoinedAt,
		LastReadAt: p.LastReadAt,
	}
}

func messageWithSenderToResponse(m *entity.MessageWithSender) dto.MessageResponse {
	return dto.MessageResponse{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		SenderId:       m.SenderId,
		Content:        m.Content,
		MessageType:    string(m.MessageType),
		FileURL:        m.FileURL,
		IsEdited:       m.IsEdited,
		CreatedAt:      m.CreatedAt,
		Sender: &dto.MessageSender{
			Id:       m.SenderId,
			Username: m.SenderUsername,
			FullName: m.SenderFullName,
			Role:     string(m.SenderRole),
		},
	}
}

func conversationOverviewToResponse(o *entity.ConversationOverview) dto.ConversationResponse {
	res := dto.ConversationResponse{
		Id:          o.Id,
		Type:        string(o.Type),
		Name:        o.Name,
		Description: o.Description,
		CreatedBy:   o.CreatedBy,
		IsActive:    o.IsActive,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		UnreadCount: o.UnreadCount,
	}
	for _, p := range o.Participants {
		res.Participants = append(res.Participants, participantToResponse(&p))
	}
	if o.LastMessage != nil {
		last := messageWithSenderToResponse(o.LastMessage)
		res.LastMessage = &last
	}
	return res
}

func (s *chatService) GetUserConversations(ctx context.Context, userId uuid.UUID) ([]dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	overviews, err := uow.ConversationRepository().ListOverviewsForUser(ctx, userId)
	if err != nil {
		return nil, apperr.Internal("failed to list conversations", err)
	}

	res := make([]dto.ConversationResponse, len(overviews))
	for i, o := range overviews {
		res[i] = conversationOverviewToResponse(o)
	}
	return res, nil
}

func (s *chatService) CreateDirectConversation(ctx context.Context, userId uuid.UUID, req *dto.CreateDirectRequest) (*dto.CreateDirectResponse, error) {
	if req.OtherUserId == userId {
		return nil, apperr.Validation("cannot start a conversation with yourself")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	other, err := uow.UserRepository().FindOne(ctx,
		specification.ByID{ID: req.OtherUserId},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, apperr.Internal("failed to look up user", err)
	}
	if other == nil {
		return nil, apperr.NotFound("user not found")
	}

	conversationId, inserted, err := uow.ConversationRepository().UpsertDirect(ctx, userId, req.OtherUserId)
	if err != nil {
		return nil, apperr.Internal("failed to create direct conversation", err)
	}

	if inserted {
		s.publishEvent(ctx, dto.ChatEventMessage{
			EventType:      dto.EventConversationOpened,
			ConversationId: conversationId,
			ActorId:        userId,
			OccurredAt:     time.Now(),
		})
	}

	return &dto.CreateDirectResponse{ConversationId: conversationId}, nil
}

// requireMembership gates conversation-scoped reads and writes. The
// conversation must exist and be active, and the user must be an active
// participant.
func (s *chatService) requireMembership(ctx context.Context, uow unitofwork.UnitOfWork, conversationId, userId uuid.UUID) error {
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.ActiveOnly{},
	)
	if err != nil {
		return apperr.Internal("failed to load conversation", err)
	}
	if conversation == nil {
		return apperr.NotFound("conversation not found")
	}

	member, err := uow.ParticipantRepository().IsActiveMember(ctx, conversationId, userId)
	if err != nil {
		return apperr.Internal("failed to check membership", err)
	}
	if !member {
		return apperr.Authorization("not a member of this conversation")
	}
	return nil
}

func (s *chatService) GetConversationMessages(ctx context.Context, userId, conversationId uuid.UUID, limit, offset int) ([]dto.MessageResponse, error) {
	if limit <= 0 {
		limit = defaultMessagePageSize
	}
	if limit > maxMessagePageSize {
		limit = maxMessagePageSize
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.requireMembership(ctx, uow, conversationId, userId); err != nil {
		return nil, err
	}

	page, err := uow.MessageRepository().FindPageWithSenders(ctx, conversationId, limit, offset)
	if err != nil {
		return nil, apperr.Internal("failed to load messages", err)
	}

	// Storage hands back the page newest first; callers get it in
	// chronological order.
	res := make([]dto.MessageResponse, len(page))
	for i, m := range page {
		res[len(page)-1-i] = messageWithSenderToResponse(m)
	}

	// Reading marks the conversation read. A message landing between the
	// fetch and this stamp may be counted read early.
	if err := uow.ParticipantRepository().UpdateLastRead(ctx, conversationId, userId); err != nil {
		s.log.Warn("chat", "failed to stamp last_read_at", map[string]interface{}{
			"conversation_id": conversationId,
			"user_id":         userId,
			"error":           err.Error(),
		})
	}

	return res, nil
}

func (s *chatService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	messageType := entity.MessageTypeText
	if req.MessageType != "" {
		messageType = entity.MessageType(req.MessageType)
		if !entity.ValidMessageType(messageType) {
			return nil, apperr.Validation("message_type must be one of text, file, image, system")
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.requireMembership(ctx, uow, req.ConversationId, userId); err != nil {
		return nil, err
	}

	now := time.Now()
	msg := &entity.Message{
		Id:             uuid.New(),
		ConversationId: req.ConversationId,
		SenderId:       userId,
		Content:        req.Content,
		MessageType:    messageType,
		FileURL:        req.FileURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		return nil, apperr.Internal("failed to send message", err)
	}

	// Bumps the conversation to the top of everyone's list.
	if err := uow.ConversationRepository().TouchUpdatedAt(ctx, req.ConversationId); err != nil {
		s.log.Warn("chat", "failed to touch conversation", map[string]interface{}{
			"conversation_id": req.ConversationId,
			"error":           err.Error(),
		})
	}

	s.publishEvent(ctx, dto.ChatEventMessage{
		EventType:      dto.EventMessageSent,
		ConversationId: req.ConversationId,
		MessageId:      msg.Id,
		ActorId:        userId,
		OccurredAt:     now,
	})

	res := s.chatMapper.MessageToResponse(msg)
	return &res, nil
}
