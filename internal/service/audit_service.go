package service

import (
	"context"
	"time"

	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/pkg/logger"
	"chatdesk-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// IAuditService persists security-relevant events to the system log
// table. Recording is best effort: a failed write is logged, never
// propagated to the caller.
type IAuditService interface {
	Record(ctx context.Context, level, module, message string, details map[string]interface{})
}

type auditService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewAuditService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IAuditService {
	return &auditService{
		uowFactory: uowFactory,
		log:        log,
	}
}

func (s *auditService) Record(ctx context.Context, level, module, message string, details map[string]interface{}) {
	entry := &entity.AuditEntry{
		Id:        uuid.New(),
		Level:     level,
		Module:    module,
		Message:   message,
		Details:   details,
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SystemLogRepository().Create(ctx, entry); err != nil {
		s.log.Warn("audit", "failed to persist audit entry", map[string]interface{}{
			"error":   err.Error(),
			"message": message,
		})
	}
}
