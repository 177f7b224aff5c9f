package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"chatdesk-be/internal/dto"
	"chatdesk-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiredSessionDoesNotBlockLogin(t *testing.T) {
	app, db, _ := newTestServer(t)

	suffix := uniqueSuffix()
	email := fmt.Sprintf("exp-%s@example.com", suffix)
	userId := seedUser(t, db, email, "exp"+suffix, "supersecret", "agent")

	// An active flag left on a long-expired row must not block login.
	now := time.Now()
	stale := model.UserSession{
		Id:           uuid.New(),
		UserId:       userId,
		SessionToken: "stale-" + suffix,
		CreatedAt:    now.Add(-8 * 24 * time.Hour),
		LastActivity: now.Add(-8 * 24 * time.Hour),
		ExpiresAt:    now.Add(-24 * time.Hour),
		IsActive:     true,
	}
	require.NoError(t, db.Create(&stale).Error)

	resp := doJSON(t, app, "POST", "/api/auth/login", "", dto.LoginRequest{
		Email:    email,
		Password: "supersecret",
	})
	assert.Equal(t, 200, resp.StatusCode)

	// The login deactivated the stale row along with everything else.
	var staleActive bool
	db.Raw(`SELECT is_active FROM user_sessions WHERE id = ?`, stale.Id).Scan(&staleActive)
	assert.False(t, staleActive)

	var activeCount int64
	db.Raw(`SELECT COUNT(*) FROM user_sessions WHERE user_id = ? AND is_active = true`, userId).Scan(&activeCount)
	assert.Equal(t, int64(1), activeCount)
}

func TestCleanupExpiredSessions(t *testing.T) {
	_, db, container := newTestServer(t)

	suffix := uniqueSuffix()
	email := fmt.Sprintf("clean-%s@example.com", suffix)
	userId := seedUser(t, db, email, "clean"+suffix, "supersecret", "agent")
	otherEmail := fmt.Sprintf("clean2-%s@example.com", suffix)
	otherUserId := seedUser(t, db, otherEmail, "clean2"+suffix, "supersecret", "agent")

	now := time.Now()
	expired := model.UserSession{
		Id:           uuid.New(),
		UserId:       userId,
		SessionToken: "expired-" + suffix,
		CreatedAt:    now.Add(-8 * 24 * time.Hour),
		LastActivity: now.Add(-8 * 24 * time.Hour),
		ExpiresAt:    now.Add(-time.Hour),
		IsActive:     true,
	}
	live := model.UserSession{
		Id:           uuid.New(),
		UserId:       otherUserId,
		SessionToken: "live-" + suffix,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(24 * time.Hour),
		IsActive:     true,
	}
	require.NoError(t, db.Create(&expired).Error)
	require.NoError(t, db.Create(&live).Error)

	affected, err := container.SessionService.CleanupExpiredSessions(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, affected, int64(1))

	var expiredActive, liveActive bool
	db.Raw(`SELECT is_active FROM user_sessions WHERE id = ?`, expired.Id).Scan(&expiredActive)
	db.Raw(`SELECT is_active FROM user_sessions WHERE id = ?`, live.Id).Scan(&liveActive)
	assert.False(t, expiredActive)
	assert.True(t, liveActive)
}

func TestVerifySessionRefreshesActivity(t *testing.T) {
	_, db, container := newTestServer(t)

	suffix := uniqueSuffix()
	email := fmt.Sprintf("touch-%s@example.com", suffix)
	userId := seedUser(t, db, email, "touch"+suffix, "supersecret", "agent")

	session, err := container.SessionService.CreateSession(context.Background(), userId, "test-device", "127.0.0.1")
	require.NoError(t, err)

	// Age the activity stamp, then verify.
	db.Exec(`UPDATE user_sessions SET last_activity = ? WHERE id = ?`, time.Now().Add(-time.Hour), session.Id)

	verified, err := container.SessionService.VerifySession(context.Background(), session.SessionToken)
	require.NoError(t, err)
	require.NotNil(t, verified)

	var lastActivity time.Time
	db.Raw(`SELECT last_activity FROM user_sessions WHERE id = ?`, session.Id).Scan(&lastActivity)
	assert.WithinDuration(t, time.Now(), lastActivity, time.Minute)

	t.Run("unknown token yields no session", func(t *testing.T) {
		got, err := container.SessionService.VerifySession(context.Background(), "no-such-token")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
