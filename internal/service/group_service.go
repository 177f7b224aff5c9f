package service

import (
	"context"
	"encoding/json"
	"time"

	"chatdesk-be/internal/dto"
	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/pkg/apperr"
	"chatdesk-be/internal/pkg/logger"
	"chatdesk-be/internal/repository/specification"
	"chatdesk-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IGroupService interface {
	CreateGroup(ctx context.Context, creatorId uuid.UUID, req *dto.CreateGroupRequest) (*dto.ConversationResponse, error)
	ListGroups(ctx context.Context) ([]dto.GroupResponse, error)
	// UpdateGroup applies a partial update: only the fields present in
	// the request change.
	UpdateGroup(ctx context.Context, actorId uuid.UUID, req *dto.UpdateGroupRequest) error
	// DeleteGroup soft-deletes: the row and its history stay in storage.
	DeleteGroup(ctx context.Context, actorId, groupId uuid.UUID) error
	AddMember(ctx context.Context, actorId uuid.UUID, req *dto.GroupMemberRequest) error
	RemoveMember(ctx context.Context, actorId uuid.UUID, req *dto.GroupMemberRequest) error
}

type groupService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	audit            IAuditService
	log              logger.ILogger
}

func NewGroupService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService, audit IAuditService, log logger.ILogger) IGroupService {
	return &groupService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		audit:            audit,
		log:              log,
	}
}

func (s *groupService) publishEvent(ctx context.Context, event dto.ChatEventMessage) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Warn("group", "failed to marshal group event", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("group", "failed to publish group event", map[string]interface{}{
			"event_type": event.EventType,
			"error":      err.Error(),
		})
	}
}

// findGroup loads an active group conversation or fails with not found.
func (s *groupService) findGroup(ctx context.Context, uow unitofwork.UnitOfWork, groupId uuid.UUID) (*entity.Conversation, error) {
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: groupId},
		specification.ByConversationType{Type: string(entity.ConversationTypeGroup)},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, apperr.Internal("failed to load group", err)
	}
	if conversation == nil {
		return nil, apperr.NotFound("group not found")
	}
	return conversation, nil
}

func (s *groupService) CreateGroup(ctx context.Context, creatorId uuid.UUID, req *dto.CreateGroupRequest) (*dto.ConversationResponse, error) {
	now := time.Now()
	createdBy := creatorId
	var description *string
	if req.Description != "" {
		description = &req.Description
	}

	conversation := &entity.Conversation{
		Id:          uuid.New(),
		Type:        entity.ConversationTypeGroup,
		Name:        &req.Name,
		Description: description,
		CreatedBy:   &createdBy,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// The creator is always the group admin, whether or not they appear
	// in participant_ids. Duplicates collapse to one row each.
	seen := map[uuid.UUID]bool{creatorId: true}
	participants := []*entity.Participant{{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		UserId:         creatorId,
		Role:           entity.ParticipantRoleAdmin,
		JoinedAt:       now,
		IsActive:       true,
	}}
	for _, userId := range req.ParticipantIds {
		if seen[userId] {
			continue
		}
		seen[userId] = true
		participants = append(participants, &entity.Participant{
			Id:             uuid.New(),
			ConversationId: conversation.Id,
			UserId:         userId,
			Role:           entity.ParticipantRoleMember,
			JoinedAt:       now,
			IsActive:       true,
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer uow.Rollback()

	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, apperr.Internal("failed to create group", err)
	}
	if err := uow.ParticipantRepository().CreateBatch(ctx, participants); err != nil {
		return nil, apperr.Internal("failed to add participants", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit group", err)
	}

	s.publishEvent(ctx, dto.ChatEventMessage{
		EventType:      dto.EventGroupCreated,
		ConversationId: conversation.Id,
		ActorId:        creatorId,
		OccurredAt:     now,
	})
	s.audit.Record(ctx, "info", "group", "group created", map[string]interface{}{
		"group_id":   conversation.Id,
		"created_by": creatorId,
		"members":    len(participants),
	})

	return &dto.ConversationResponse{
		Id:          conversation.Id,
		Type:        string(conversation.Type),
		Name:        conversation.Name,
		Description: conversation.Description,
		CreatedBy:   conversation.CreatedBy,
		IsActive:    conversation.IsActive,
		CreatedAt:   conversation.CreatedAt,
		UpdatedAt:   conversation.UpdatedAt,
	}, nil
}

func (s *groupService) ListGroups(ctx context.Context) ([]dto.GroupResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	overviews, err := uow.ConversationRepository().ListGroupOverviews(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list groups", err)
	}

	res := make([]dto.GroupResponse, len(overviews))
	for i, o := range overviews {
		item := dto.GroupResponse{
			ConversationResponse: dto.ConversationResponse{
				Id:          o.Id,
				Type:        string(o.Type),
				Name:        o.Name,
				Description: o.Description,
				CreatedBy:   o.CreatedBy,
				IsActive:    o.IsActive,
				CreatedAt:   o.CreatedAt,
				UpdatedAt:   o.UpdatedAt,
			},
			MemberCount:  o.MemberCount,
			MessageCount: o.MessageCount,
		}
		for _, p := range o.Participants {
			item.Participants = append(item.Participants, participantToResponse(&p))
		}
		res[i] = item
	}
	return res, nil
}

func (s *groupService) UpdateGroup(ctx context.Context, actorId uuid.UUID, req *dto.UpdateGroupRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findGroup(ctx, uow, req.GroupId); err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) == 0 {
		return apperr.Validation("no fields to update")
	}

	if err := uow.ConversationRepository().UpdateFields(ctx, req.GroupId, fields); err != nil {
		return apperr.Internal("failed to update group", err)
	}

	s.audit.Record(ctx, "info", "group", "group updated", map[string]interface{}{
		"group_id": req.GroupId,
		"actor_id": actorId,
	})
	return nil
}

func (s *groupService) DeleteGroup(ctx context.Context, actorId, groupId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findGroup(ctx, uow, groupId); err != nil {
		return err
	}

	if err := uow.ConversationRepository().UpdateFields(ctx, groupId, map[string]interface{}{
		"is_active": false,
	}); err != nil {
		return apperr.Internal("failed to delete group", err)
	}

	s.audit.Record(ctx, "warn", "group", "group deleted", map[string]interface{}{
		"group_id": groupId,
		"actor_id": actorId,
	})
	return nil
}

// AddMember is idempotent. Re-adding a removed user reactivates their
// original participant row, keeping joined_at and last_read_at.
func (s *groupService) AddMember(ctx context.Context, actorId uuid.UUID, req *dto.GroupMemberRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findGroup(ctx, uow, req.GroupId); err != nil {
		return err
	}

	user, err := uow.UserRepository().FindOne(ctx,
		specification.ByID{ID: req.UserId},
		specification.ActiveOnly{},
	)
	if err != nil {
		return apperr.Internal("failed to look up user", err)
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}

	participant := &entity.Participant{
		Id:             uuid.New(),
		ConversationId: req.GroupId,
		UserId:         req.UserId,
		Role:           entity.ParticipantRoleMember,
		JoinedAt:       time.Now(),
		IsActive:       true,
	}
	if err := uow.ParticipantRepository().Upsert(ctx, participant); err != nil {
		return apperr.Internal("failed to add member", err)
	}

	s.publishEvent(ctx, dto.ChatEventMessage{
		EventType:      dto.EventGroupMemberAdded,
		ConversationId: req.GroupId,
		ActorId:        actorId,
		OccurredAt:     time.Now(),
	})
	s.audit.Record(ctx, "info", "group", "member added", map[string]interface{}{
		"group_id": req.GroupId,
		"user_id":  req.UserId,
		"actor_id": actorId,
	})
	return nil
}

// RemoveMember soft-removes: the participant row stays with
// is_active=false so message history keeps its attribution. Removing a
// non-member is a no-op.
func (s *groupService) RemoveMember(ctx context.Context, actorId uuid.UUID, req *dto.GroupMemberRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findGroup(ctx, uow, req.GroupId); err != nil {
		return err
	}

	if err := uow.ParticipantRepository().Deactivate(ctx, req.GroupId, req.UserId); err != nil {
		return apperr.Internal("failed to remove member", err)
	}

	s.publishEvent(ctx, dto.ChatEventMessage{
		EventType:      dto.EventGroupMemberRemoved,
		ConversationId: req.GroupId,
		ActorId:        actorId,
		OccurredAt:     time.Now(),
	})
	s.audit.Record(ctx, "info", "group", "member removed", map[string]interface{}{
		"group_id": req.GroupId,
		"user_id":  req.UserId,
		"actor_id": actorId,
	})
	return nil
}
