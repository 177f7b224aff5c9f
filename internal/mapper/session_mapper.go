package mapper

import (
	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.UserSession) *entity.Session {
	if s == nil {
		return nil
	}
	return &entity.Session{
		Id:           s.Id,
		UserId:       s.UserId,
		SessionToken: s.SessionToken,
		DeviceInfo:   s.DeviceInfo,
		IpAddress:    s.IpAddress,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
		ExpiresAt:    s.ExpiresAt,
		IsActive:     s.IsActive,
	}
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.UserSession {
	if s == nil {
		return nil
	}
	return &model.UserSession{
		Id:           s.Id,
		UserId:       s.UserId,
		SessionToken: s.SessionToken,
		DeviceInfo:   s.DeviceInfo,
		IpAddress:    s.IpAddress,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
		ExpiresAt:    s.ExpiresAt,
		IsActive:     s.IsActive,
	}
}
