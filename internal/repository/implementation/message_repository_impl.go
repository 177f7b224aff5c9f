package implementation

import (
	"context"

	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/mapper"
	"chatdesk-be/internal/model"
	"chatdesk-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entity.Message) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *MessageRepositoryImpl) FindPageWithSenders(ctx context.Context, conversationId uuid.UUID, limit, offset int) ([]*entity.MessageWithSender, error) {
	var rows []lastMessageRow
	err := r.db.WithContext(ctx).
		Table("messages").
		Select("messages.*, u.username AS sender_username, u.full_name AS sender_full_name, u.role AS sender_role").
		Joins("JOIN users u ON u.id = messages.sender_id").
		Where("messages.conversation_id = ? AND messages.is_deleted = ?", conversationId, false).
		Order("messages.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.MessageWithSender, len(rows))
	for i := range rows {
		row := &rows[i]
		out[i] = &entity.MessageWithSender{
			Message:        *r.mapper.MessageToEntity(&row.Message),
			SenderUsername: row.SenderUsername,
			SenderFullName: row.SenderFullName,
			SenderRole:     entity.UserRole(row.SenderRole),
		}
	}
	return out, nil
}

func (r *MessageRepositoryImpl) CountByConversation(ctx context.Context, conversationId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("conversation_id = ? AND is_deleted = ?", conversationId, false).
		Count(&count).Error
	return count, err
}
