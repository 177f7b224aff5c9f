package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"chatdesk-be/internal/dto"
	"chatdesk-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Requests fired from goroutines collect their outcome here; assertions
// stay on the test goroutine.
type raceResult struct {
	status int
	err    error
	body   []byte
}

func fireJSON(app *fiber.App, method, path, bearer string, body interface{}) raceResult {
	payload, err := json.Marshal(body)
	if err != nil {
		return raceResult{err: err}
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		return raceResult{err: err}
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return raceResult{status: resp.StatusCode, err: err}
	}
	return raceResult{status: resp.StatusCode, body: buf.Bytes()}
}

func TestConcurrentLoginsKeepOneActiveSession(t *testing.T) {
	app, db, _ := newTestServer(t)

	suffix := uniqueSuffix()
	email := "race-" + suffix + "@chatdesk.local"
	password := "password123"
	userId := seedUser(t, db, email, "race"+suffix, password, "agent")

	const attempts = 8
	results := make([]raceResult, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = fireJSON(app, "POST", "/api/auth/login", "", dto.LoginRequest{
				Email:    email,
				Password: password,
			})
		}(i)
	}
	wg.Wait()

	okCount := 0
	for i, res := range results {
		require.NoError(t, res.err, "login attempt %d", i)
		switch res.status {
		case http.StatusOK:
			okCount++
		case http.StatusConflict:
		default:
			t.Fatalf("login attempt %d: unexpected status %d: %s", i, res.status, res.body)
		}
	}
	require.Equal(t, 1, okCount, "exactly one concurrent login should win")

	var activeCount int64
	err := db.Raw(`SELECT COUNT(*) FROM user_sessions WHERE user_id = ? AND is_active = true`, userId).
		Scan(&activeCount).Error
	require.NoError(t, err)
	require.EqualValues(t, 1, activeCount, "concurrent logins must not leave more than one active session")
}

func TestConcurrentDirectCreationConvergesOnOneConversation(t *testing.T) {
	app, db, _ := newTestServer(t)

	suffix := uniqueSuffix()
	password := "password123"
	aliceId := seedUser(t, db, "alice-"+suffix+"@chatdesk.local", "alice"+suffix, password, "agent")
	bobId := seedUser(t, db, "bob-"+suffix+"@chatdesk.local", "bob"+suffix, password, "agent")

	alice := loginAs(t, app, "alice-"+suffix+"@chatdesk.local", password)
	bob := loginAs(t, app, "bob-"+suffix+"@chatdesk.local", password)

	const attempts = 6
	results := make([]raceResult, attempts)

	// Alternate the caller so both orderings of the pair hit the upsert.
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bearer, other := alice.Tokens.AccessToken, bobId
			if i%2 == 1 {
				bearer, other = bob.Tokens.AccessToken, aliceId
			}
			results[i] = fireJSON(app, "POST", "/api/chat/direct", bearer, dto.CreateDirectRequest{
				OtherUserId: other,
			})
		}(i)
	}
	wg.Wait()

	ids := make([]uuid.UUID, attempts)
	for i, res := range results {
		require.NoError(t, res.err, "direct create attempt %d", i)
		require.Equal(t, http.StatusOK, res.status, "attempt %d: %s", i, res.body)

		var parsed serverutils.BaseResponse[dto.CreateDirectResponse]
		require.NoError(t, json.Unmarshal(res.body, &parsed), "attempt %d", i)
		ids[i] = parsed.Data.ConversationId
	}

	require.NotEqual(t, uuid.Nil, ids[0])
	t.Cleanup(func() { cleanupConversation(db, ids[0]) })
	for i := 1; i < attempts; i++ {
		require.Equal(t, ids[0], ids[i], "every caller must land on the same conversation")
	}

	var convCount int64
	err := db.Raw(`SELECT COUNT(*) FROM conversations WHERE id = ?`, ids[0]).Scan(&convCount).Error
	require.NoError(t, err)
	require.EqualValues(t, 1, convCount)

	var memberCount int64
	err = db.Raw(`SELECT COUNT(*) FROM conversation_participants WHERE conversation_id = ? AND is_active = true`, ids[0]).
		Scan(&memberCount).Error
	require.NoError(t, err)
	require.EqualValues(t, 2, memberCount, "both participants must be present after the race")
}
