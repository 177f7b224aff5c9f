package service

import (
	"context"
	"time"

	"chatdesk-be/internal/dto"
	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/mapper"
	"chatdesk-be/internal/pkg/apperr"
	"chatdesk-be/internal/pkg/logger"
	"chatdesk-be/internal/pkg/ratelimit"
	"chatdesk-be/internal/pkg/token"
	"chatdesk-be/internal/repository/specification"
	"chatdesk-be/internal/repository/unitofwork"
	"chatdesk-be/pkg/events"
	pkgNats "chatdesk-be/pkg/nats"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, deviceInfo string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sessionToken string) error
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.RefreshResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessionService ISessionService
	issuer         *token.Issuer
	limiter        *ratelimit.LoginLimiter
	eventPublisher *pkgNats.Publisher
	audit          IAuditService
	userMapper     *mapper.UserMapper
	log            logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	sessionService ISessionService,
	issuer *token.Issuer,
	limiter *ratelimit.LoginLimiter,
	eventPublisher *pkgNats.Publisher,
	audit IAuditService,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		sessionService: sessionService,
		issuer:         issuer,
		limiter:        limiter,
		eventPublisher: eventPublisher,
		audit:          audit,
		userMapper:     mapper.NewUserMapper(),
		log:            log,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	role := entity.UserRoleAgent
	if req.Role != "" {
		role = entity.UserRole(req.Role)
		if !entity.ValidUserRole(role) {
			return nil, apperr.Validation("role must be one of admin, management, agent")
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Duplicates are checked up front so the caller learns which field
	// collided. The unique indexes remain the backstop under races.
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperr.Internal("failed to check email", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("email is already registered")
	}

	existing, err = uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: req.Username})
	if err != nil {
		return nil, apperr.Internal("failed to check username", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, apperr.Internal("failed to create user", err)
	}

	s.audit.Record(ctx, "info", "auth", "user registered", map[string]interface{}{
		"user_id": user.Id,
		"email":   user.Email,
		"role":    string(user.Role),
	})

	res := s.userMapper.ToResponse(user)
	return &res, nil
}

func activeSessionConflict(active *entity.Session) error {
	return apperr.Conflict("account is already logged in elsewhere, log out there first").
		WithDetails(map[string]interface{}{
			"active_session": map[string]interface{}{
				"created_at":    active.CreatedAt,
				"last_activity": active.LastActivity,
			},
		})
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, deviceInfo string) (*dto.LoginResponse, error) {
	if err := s.limiter.Check(ctx, req.Email, ipAddress); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperr.Internal("failed to look up user", err)
	}
	// Unknown email, wrong password and deactivated account all get the
	// same answer.
	if user == nil || !user.IsActive {
		s.limiter.RecordFailure(ctx, req.Email, ipAddress)
		return nil, apperr.Authentication("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.limiter.RecordFailure(ctx, req.Email, ipAddress)
		return nil, apperr.Authentication("invalid email or password")
	}

	// Single-active-session policy: an unexpired active session blocks
	// the login, it is never silently evicted.
	active, err := s.sessionService.GetActiveSession(ctx, user.Id)
	if err != nil {
		return nil, err
	}
	if active != nil {
		s.audit.Record(ctx, "warn", "auth", "login blocked by active session", map[string]interface{}{
			"user_id":    user.Id,
			"ip_address": ipAddress,
		})
		return nil, activeSessionConflict(active)
	}

	s.limiter.Reset(ctx, req.Email, ipAddress)

	session, err := s.sessionService.CreateSession(ctx, user.Id, deviceInfo, ipAddress)
	if err != nil {
		// A login racing this one may have won the session insert after
		// the active-session check above. Report it the same way.
		if apperr.IsKind(err, apperr.KindConflict) {
			s.audit.Record(ctx, "warn", "auth", "login blocked by active session", map[string]interface{}{
				"user_id":    user.Id,
				"ip_address": ipAddress,
			})
			if winner, lookupErr := s.sessionService.GetActiveSession(ctx, user.Id); lookupErr == nil && winner != nil {
				return nil, activeSessionConflict(winner)
			}
		}
		return nil, err
	}

	pair, err := s.issuer.Issue(user)
	if err != nil {
		return nil, apperr.Internal("failed to issue tokens", err)
	}

	// Best effort only, a failure here must not block the login.
	if err := uow.UserRepository().UpdateLastLogin(ctx, user.Id); err != nil {
		s.log.Warn("auth", "failed to update last_login_at", map[string]interface{}{
			"user_id": user.Id,
			"error":   err.Error(),
		})
	}

	if s.eventPublisher != nil {
		event := events.NewEvent("USER_LOGIN", map[string]interface{}{
			"user_id":    user.Id,
			"ip_address": ipAddress,
			"timestamp":  time.Now(),
		})
		go func() {
			pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.eventPublisher.Publish(pubCtx, event); err != nil {
				s.log.Warn("auth", "failed to publish login event", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	s.audit.Record(ctx, "info", "auth", "user logged in", map[string]interface{}{
		"user_id":    user.Id,
		"session_id": session.Id,
		"ip_address": ipAddress,
	})

	return &dto.LoginResponse{
		User: s.userMapper.ToResponse(user),
		Tokens: dto.TokenPairResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		},
		Session: dto.SessionResponse{
			Token:        session.SessionToken,
			CreatedAt:    session.CreatedAt,
			LastActivity: session.LastActivity,
			ExpiresAt:    session.ExpiresAt,
		},
	}, nil
}

// Logout is idempotent: an unknown or already-inactive token still
// succeeds.
func (s *authService) Logout(ctx context.Context, sessionToken string) error {
	if err := s.sessionService.InvalidateSession(ctx, sessionToken); err != nil {
		return err
	}
	s.audit.Record(ctx, "info", "auth", "user logged out", nil)
	return nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.RefreshResponse, error) {
	access, err := s.issuer.Refresh(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{AccessToken: access}, nil
}
