package contract

import (
	"context"

	"chatdesk-be/internal/entity"
)

type SystemLogRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error
}
