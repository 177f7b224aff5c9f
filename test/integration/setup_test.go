package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chatdesk-be/internal/bootstrap"
	"chatdesk-be/internal/config"
	"chatdesk-be/internal/dto"
	"chatdesk-be/internal/model"
	"chatdesk-be/internal/pkg/serverutils"
	"chatdesk-be/internal/server"
	"chatdesk-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// newTestServer boots the full stack against the real database. Tests
// are skipped when DB_CONNECTION_STRING is not set.
func newTestServer(t *testing.T) (*fiber.App, *gorm.DB, *bootstrap.Container) {
	t.Helper()

	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		t.Skip("DB_CONNECTION_STRING not set, skipping integration test")
	}
	if cfg.Auth.JwtSecret == "" {
		cfg.Auth.JwtSecret = "integration-test-secret"
	}

	db, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	return srv.GetApp(), db, container
}

// seedUser inserts a user directly and registers cleanup for it and its
// sessions.
func seedUser(t *testing.T, db *gorm.DB, email, username, password, role string) uuid.UUID {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	id := uuid.New()
	now := time.Now()
	user := model.User{
		Id:           id,
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Test " + username,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}

	t.Cleanup(func() {
		db.Exec(`DELETE FROM user_sessions WHERE user_id = ?`, id)
		db.Exec(`DELETE FROM users WHERE id = ?`, id)
	})
	return id
}

// cleanupConversation removes a conversation and its dependent rows.
func cleanupConversation(db *gorm.DB, conversationId uuid.UUID) {
	db.Exec(`DELETE FROM messages WHERE conversation_id = ?`, conversationId)
	db.Exec(`DELETE FROM conversation_participants WHERE conversation_id = ?`, conversationId)
	db.Exec(`DELETE FROM conversations WHERE id = ?`, conversationId)
}

// uniqueSuffix keeps seeded identities from colliding across runs.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// doJSON fires a JSON request at the fiber app, with an optional bearer
// token.
func doJSON(t *testing.T, app *fiber.App, method, path, bearer string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}
	return resp
}

// loginAs performs a real login and returns the response payload.
func loginAs(t *testing.T, app *fiber.App, email, password string) dto.LoginResponse {
	t.Helper()

	resp := doJSON(t, app, "POST", "/api/auth/login", "", dto.LoginRequest{
		Email:    email,
		Password: password,
	})
	if resp.StatusCode != 200 {
		t.Fatalf("Login for %s failed with status %d", email, resp.StatusCode)
	}

	var result serverutils.BaseResponse[dto.LoginResponse]
	decodeBody(t, resp, &result)
	return result.Data
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}
