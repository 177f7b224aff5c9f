package implementation

import (
	"context"
	"errors"
	"time"

	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/mapper"
	"chatdesk-be/internal/model"
	"chatdesk-be/internal/repository/contract"
	"chatdesk-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewConversationRepository(db *gorm.DB) contract.ConversationRepository {
	return &ConversationRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ConversationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversationRepositoryImpl) Create(ctx context.Context, conversation *entity.Conversation) error {
	m := r.mapper.ConversationToModel(conversation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*conversation = *r.mapper.ConversationToEntity(m)
	return nil
}

func (r *ConversationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	var m model.Conversation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ConversationToEntity(&m), nil
}

// UpsertDirect relies on the unique index on direct_key: the no-op
// DO UPDATE turns a conflicting insert into a RETURNING of the existing
// row, so two concurrent first-contacts resolve to the same id without
// a select-then-insert race. xmax = 0 distinguishes a fresh insert.
// The conversation and its two participant rows commit as one
// transaction, and the participant upsert runs on every call so a
// conversation can never stay behind without its members.
func (r *ConversationRepositoryImpl) UpsertDirect(ctx context.Context, userA, userB uuid.UUID) (uuid.UUID, bool, error) {
	key := entity.DirectKey(userA, userB)

	var row struct {
		Id       uuid.UUID
		Inserted bool
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(`
			INSERT INTO conversations (id, type, direct_key, created_by, is_active, created_at, updated_at)
			VALUES (gen_random_uuid(), 'direct', ?, ?, true, now(), now())
			ON CONFLICT (direct_key)
			DO UPDATE SET direct_key = EXCLUDED.direct_key
			RETURNING id, (xmax = 0) AS inserted
		`, key, userA).Scan(&row).Error; err != nil {
			return err
		}

		return tx.Exec(`
			INSERT INTO conversation_participants (id, conversation_id, user_id, role, joined_at, is_active)
			VALUES (gen_random_uuid(), ?, ?, 'member', now(), true),
			       (gen_random_uuid(), ?, ?, 'member', now(), true)
			ON CONFLICT (conversation_id, user_id) DO NOTHING
		`, row.Id, userA, row.Id, userB).Error
	})
	if err != nil {
		return uuid.Nil, false, err
	}

	return row.Id, row.Inserted, nil
}

func (r *ConversationRepositoryImpl) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Conversation{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *ConversationRepositoryImpl) TouchUpdatedAt(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

type participantRow struct {
	model.ConversationParticipant
	Username string
	FullName string
	Email    string
	UserRole string `gorm:"column:user_role"`
}

type lastMessageRow struct {
	model.Message
	SenderUsername string
	SenderFullName string
	SenderRole     string
}

type unreadRow struct {
	ConversationId uuid.UUID
	UnreadCount    int64
}

func (r *ConversationRepositoryImpl) ListOverviewsForUser(ctx context.Context, userId uuid.UUID) ([]*entity.ConversationOverview, error) {
	var convs []*model.Conversation
	err := r.db.WithContext(ctx).
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ? AND cp.is_active = ? AND conversations.is_active = ?", userId, true, true).
		Order("conversations.updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	if len(convs) == 0 {
		return []*entity.ConversationOverview{}, nil
	}

	ids := make([]uuid.UUID, len(convs))
	for i, c := range convs {
		ids[i] = c.Id
	}

	participants, err := r.loadParticipants(ctx, ids)
	if err != nil {
		return nil, err
	}

	lastMessages, err := r.loadLastMessages(ctx, ids)
	if err != nil {
		return nil, err
	}

	unread, err := r.loadUnreadCounts(ctx, ids, userId)
	if err != nil {
		return nil, err
	}

	overviews := make([]*entity.ConversationOverview, len(convs))
	for i, c := range convs {
		overviews[i] = &entity.ConversationOverview{
			Conversation: *r.mapper.ConversationToEntity(c),
			Participants: participants[c.Id],
			LastMessage:  lastMessages[c.Id],
			UnreadCount:  unread[c.Id],
		}
	}
	return overviews, nil
}

func (r *ConversationRepositoryImpl) loadParticipants(ctx context.Context, conversationIds []uuid.UUID) (map[uuid.UUID][]entity.ParticipantInfo, error) {
	var rows []participantRow
	err := r.db.WithContext(ctx).
		Table("conversation_participants").
		Select("conversation_participants.*, u.username, u.full_name, u.email, u.role AS user_role").
		Joins("JOIN users u ON u.id = conversation_participants.user_id").
		Where("conversation_participants.conversation_id IN ? AND conversation_participants.is_active = ?", conversationIds, true).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	chatMapper := r.mapper
	out := make(map[uuid.UUID][]entity.ParticipantInfo, len(conversationIds))
	for i := range rows {
		row := &rows[i]
		info := entity.ParticipantInfo{
			Participant: *chatMapper.ParticipantToEntity(&row.ConversationParticipant),
			Username:    row.Username,
			FullName:    row.FullName,
			Email:       row.Email,
			UserRole:    entity.UserRole(row.UserRole),
		}
		out[row.ConversationId] = append(out[row.ConversationId], info)
	}
	return out, nil
}

func (r *ConversationRepositoryImpl) loadLastMessages(ctx context.Context, conversationIds []uuid.UUID) (map[uuid.UUID]*entity.MessageWithSender, error) {
	var rows []lastMessageRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (m.conversation_id)
			m.*, u.username AS sender_username, u.full_name AS sender_full_name, u.role AS sender_role
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.conversation_id IN ? AND m.is_deleted = false
		ORDER BY m.conversation_id, m.created_at DESC
	`, conversationIds).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]*entity.MessageWithSender, len(rows))
	for i := range rows {
		row := &rows[i]
		out[row.ConversationId] = &entity.MessageWithSender{
			Message:        *r.mapper.MessageToEntity(&row.Message),
			SenderUsername: row.SenderUsername,
			SenderFullName: row.SenderFullName,
			SenderRole:     entity.UserRole(row.SenderRole),
		}
	}
	return out, nil
}

// loadUnreadCounts counts others' non-deleted messages newer than the
// viewer's last_read_at, treating a never-read conversation as epoch.
func (r *ConversationRepositoryImpl) loadUnreadCounts(ctx context.Context, conversationIds []uuid.UUID, userId uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []unreadRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT m.conversation_id, COUNT(*) AS unread_count
		FROM messages m
		JOIN conversation_participants cp
			ON cp.conversation_id = m.conversation_id AND cp.user_id = ?
		WHERE m.conversation_id IN ?
			AND m.is_deleted = false
			AND m.sender_id != ?
			AND m.created_at > COALESCE(cp.last_read_at, 'epoch'::timestamptz)
		GROUP BY m.conversation_id
	`, userId, conversationIds, userId).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		out[row.ConversationId] = row.UnreadCount
	}
	return out, nil
}

type groupRow struct {
	model.Conversation
	MemberCount  int64
	MessageCount int64
}

func (r *ConversationRepositoryImpl) ListGroupOverviews(ctx context.Context) ([]*entity.GroupOverview, error) {
	var rows []groupRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.*,
			(SELECT COUNT(*) FROM conversation_participants WHERE conversation_id = c.id AND is_active = true) AS member_count,
			(SELECT COUNT(*) FROM messages WHERE conversation_id = c.id AND is_deleted = false) AS message_count
		FROM conversations c
		WHERE c.type = 'group'
		ORDER BY c.created_at DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*entity.GroupOverview{}, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].Id
	}
	participants, err := r.loadParticipants(ctx, ids)
	if err != nil {
		return nil, err
	}

	overviews := make([]*entity.GroupOverview, len(rows))
	for i := range rows {
		row := &rows[i]
		overviews[i] = &entity.GroupOverview{
			Conversation: *r.mapper.ConversationToEntity(&row.Conversation),
			Participants: participants[row.Id],
			MemberCount:  row.MemberCount,
			MessageCount: row.MessageCount,
		}
	}
	return overviews, nil
}
