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

type ParticipantRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewParticipantRepository(db *gorm.DB) contract.ParticipantRepository {
	return &ParticipantRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ParticipantRepositoryImpl) CreateBatch(ctx context.Context, participants []*entity.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	models := make([]*model.ConversationParticipant, len(participants))
	for i, p := range participants {
		models[i] = r.mapper.ParticipantToModel(p)
	}
	return r.db.WithContext(ctx).Create(models).Error
}

func (r *ParticipantRepositoryImpl) IsActiveMember(ctx context.Context, conversationId, userId uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ? AND is_active = ?", conversationId, userId, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Upsert reactivates the existing row on conflict instead of inserting
// a new one, so joined_at and last_read_at survive a remove/re-add
// cycle.
func (r *ParticipantRepositoryImpl) Upsert(ctx context.Context, participant *entity.Participant) error {
	m := r.mapper.ParticipantToModel(participant)
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO conversation_participants (id, conversation_id, user_id, role, joined_at, is_active)
		VALUES (?, ?, ?, ?, ?, true)
		ON CONFLICT (conversation_id, user_id)
		DO UPDATE SET is_active = true
	`, m.Id, m.ConversationId, m.UserId, m.Role, m.JoinedAt).Error
}

func (r *ParticipantRepositoryImpl) Deactivate(ctx context.Context, conversationId, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationId, userId).
		Update("is_active", false).Error
}

func (r *ParticipantRepositoryImpl) UpdateLastRead(ctx context.Context, conversationId, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE conversation_participants
		SET last_read_at = now()
		WHERE conversation_id = ? AND user_id = ?
	`, conversationId, userId).Error
}

func (r *ParticipantRepositoryImpl) FindActiveWithUsers(ctx context.Context, conversationId uuid.UUID) ([]*entity.ParticipantInfo, error) {
	var rows []participantRow
	err := r.db.WithContext(ctx).
		Table("conversation_participants").
		Select("conversation_participants.*, u.username, u.full_name, u.email, u.role AS user_role").
		Joins("JOIN users u ON u.id = conversation_participants.user_id").
		Where("conversation_participants.conversation_id = ? AND conversation_participants.is_active = ?", conversationId, true).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.ParticipantInfo, len(rows))
	for i := range rows {
		row := &rows[i]
		out[i] = &entity.ParticipantInfo{
			Participant: *r.mapper.ParticipantToEntity(&row.ConversationParticipant),
			Username:    row.Username,
			FullName:    row.FullName,
			Email:       row.Email,
			UserRole:    entity.UserRole(row.UserRole),
		}
	}
	return out, nil
}
