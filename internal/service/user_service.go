package service

import (
	"context"
	"time"

	"chatdesk-be/internal/dto"
	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/mapper"
	"chatdesk-be/internal/pkg/apperr"
	"chatdesk-be/internal/repository/specification"
	"chatdesk-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type IUserService interface {
	Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
	// ListChatUsers returns every active user except the requester, for
	// the contact picker.
	ListChatUsers(ctx context.Context, requesterId uuid.UUID) ([]dto.ChatUserResponse, error)
	UpdateRole(ctx context.Context, req *dto.UpdateUserRoleRequest) error
	SetActive(ctx context.Context, req *dto.SetUserActiveRequest) error
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *gocache.Cache
	audit      IAuditService
	userMapper *mapper.UserMapper
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, cache *gocache.Cache, audit IAuditService) IUserService {
	return &userService{
		uowFactory: uowFactory,
		cache:      cache,
		audit:      audit,
		userMapper: mapper.NewUserMapper(),
	}
}

func profileCacheKey(userId uuid.UUID) string {
	return "profile:" + userId.String()
}

func (s *userService) Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	if cached, ok := s.cache.Get(profileCacheKey(userId)); ok {
		res := cached.(dto.UserResponse)
		return &res, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}

	res := s.userMapper.ToResponse(user)
	s.cache.Set(profileCacheKey(userId), res, time.Minute)
	return &res, nil
}

func (s *userService) ListChatUsers(ctx context.Context, requesterId uuid.UUID) ([]dto.ChatUserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx,
		specification.ActiveOnly{},
		specification.ExcludeUser{UserID: requesterId},
		specification.OrderBy{Field: "username"},
	)
	if err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}

	res := make([]dto.ChatUserResponse, len(users))
	for i, u := range users {
		res[i] = s.userMapper.ToChatUserResponse(u)
	}
	return res, nil
}

func (s *userService) UpdateRole(ctx context.Context, req *dto.UpdateUserRoleRequest) error {
	role := entity.UserRole(req.Role)
	if !entity.ValidUserRole(role) {
		return apperr.Validation("role must be one of admin, management, agent")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return apperr.Internal("failed to load user", err)
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}

	if err := uow.UserRepository().UpdateRole(ctx, req.UserId, role); err != nil {
		return apperr.Internal("failed to update role", err)
	}

	s.cache.Delete(profileCacheKey(req.UserId))
	s.audit.Record(ctx, "info", "user", "role updated", map[string]interface{}{
		"user_id": req.UserId,
		"role":    string(role),
	})
	return nil
}

// SetActive soft-deactivates or reactivates an account. A deactivated
// user keeps passing token verification until the access token expires;
// the short access TTL bounds that window.
func (s *userService) SetActive(ctx context.Context, req *dto.SetUserActiveRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return apperr.Internal("failed to load user", err)
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}

	if err := uow.UserRepository().SetActive(ctx, req.UserId, req.IsActive); err != nil {
		return apperr.Internal("failed to update user", err)
	}

	// A deactivated user loses their session immediately even though the
	// bearer token lingers.
	if !req.IsActive {
		if err := uow.SessionRepository().DeactivateAllForUser(ctx, req.UserId); err != nil {
			return apperr.Internal("failed to deactivate sessions", err)
		}
	}

	s.cache.Delete(profileCacheKey(req.UserId))
	s.audit.Record(ctx, "info", "user", "active flag updated", map[string]interface{}{
		"user_id":   req.UserId,
		"is_active": req.IsActive,
	})
	return nil
}
