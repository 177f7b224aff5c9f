package serverutils

import (
	"net/http/httptest"
	"testing"
	"time"

	"chatdesk-be/internal/entity"
	"chatdesk-be/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestApp(issuer *token.Issuer) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(nopLogger{}, false))

	app.Get("/any", RequireAuth(issuer), func(ctx *fiber.Ctx) error {
		userId, err := AuthUserId(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", userId))
	})
	app.Get("/admin", RequireAuth(issuer), RequireRole(entity.UserRoleAdmin), func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse[any]("ok", nil))
	})
	return app
}

func mintToken(t *testing.T, issuer *token.Issuer, role entity.UserRole) string {
	t.Helper()
	pair, err := issuer.Issue(&entity.User{
		Id:       uuid.New(),
		Email:    "u@example.com",
		Username: "u",
		Role:     role,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func TestRequireAuthMissingHeader(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Minute, time.Hour)
	app := newTestApp(issuer)

	req := httptest.NewRequest("GET", "/any", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestRequireAuthBadToken(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Minute, time.Hour)
	app := newTestApp(issuer)

	req := httptest.NewRequest("GET", "/any", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	expired := token.NewIssuer("test-secret", -time.Minute, time.Hour)
	app := newTestApp(token.NewIssuer("test-secret", time.Minute, time.Hour))

	req := httptest.NewRequest("GET", "/any", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, expired, entity.UserRoleAgent))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestRequireAuthValidToken(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Minute, time.Hour)
	app := newTestApp(issuer)

	req := httptest.NewRequest("GET", "/any", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, issuer, entity.UserRoleAgent))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRequireRoleDeniesWrongRole(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Minute, time.Hour)
	app := newTestApp(issuer)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, issuer, entity.UserRoleAgent))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Minute, time.Hour)
	app := newTestApp(issuer)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, issuer, entity.UserRoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
