package implementation

import (
	"context"
	"encoding/json"

	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/model"
	"chatdesk-be/internal/repository/contract"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SystemLogRepositoryImpl struct {
	db *gorm.DB
}

func NewSystemLogRepository(db *gorm.DB) contract.SystemLogRepository {
	return &SystemLogRepositoryImpl{db: db}
}

func (r *SystemLogRepositoryImpl) Create(ctx context.Context, entry *entity.AuditEntry) error {
	var details datatypes.JSON
	if entry.Details != nil {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return err
		}
		details = datatypes.JSON(raw)
	}

	module := entry.Module
	m := &model.SystemLog{
		Id:      entry.Id,
		Level:   entry.Level,
		Module:  &module,
		Message: entry.Message,
		Details: details,
	}
	return r.db.WithContext(ctx).Create(m).Error
}
