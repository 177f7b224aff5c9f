package integration

import (
	"fmt"
	"testing"

	"chatdesk-be/internal/dto"
	"chatdesk-be/internal/pkg/serverutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRegisterAndDuplicates(t *testing.T) {
	app, db, _ := newTestServer(t)

	suffix := uniqueSuffix()
	email := fmt.Sprintf("reg-%s@example.com", suffix)
	username := "reg" + suffix

	t.Cleanup(func() {
		db.Exec(`DELETE FROM users WHERE email = ?`, email)
	})

	t.Run("register succeeds", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/auth/register", "", dto.RegisterRequest{
			Email:    email,
			Username: username,
			Password: "supersecret",
			FullName: "Reg Tester",
		})
		require.Equal(t, 201, resp.StatusCode)

		var result serverutils.BaseResponse[dto.UserResponse]
		decodeBody(t, resp, &result)
		assert.True(t, result.Success)
		assert.Equal(t, email, result.Data.Email)
		assert.Equal(t, "agent", result.Data.Role)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/auth/register", "", dto.RegisterRequest{
			Email:    email,
			Username: "other" + suffix,
			Password: "supersecret",
		})
		require.Equal(t, 409, resp.StatusCode)

		var result serverutils.BaseResponse[serverutils.ErrorPayload]
		decodeBody(t, resp, &result)
		assert.False(t, result.Success)
		assert.Equal(t, "CONFLICT", result.Data.ErrorCode)
		assert.Contains(t, result.Message, "email")
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/auth/register", "", dto.RegisterRequest{
			Email:    fmt.Sprintf("other-%s@example.com", suffix),
			Username: username,
			Password: "supersecret",
		})
		require.Equal(t, 409, resp.StatusCode)

		var result serverutils.BaseResponse[serverutils.ErrorPayload]
		decodeBody(t, resp, &result)
		assert.Contains(t, result.Message, "username")
	})

	t.Run("validation failure names the field", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/auth/register", "", dto.RegisterRequest{
			Email:    fmt.Sprintf("short-%s@example.com", suffix),
			Username: "shorty" + suffix,
			Password: "short",
		})
		require.Equal(t, 400, resp.StatusCode)

		var result serverutils.BaseResponse[serverutils.ErrorPayload]
		decodeBody(t, resp, &result)
		assert.Equal(t, "VALIDATION_ERROR", result.Data.ErrorCode)
		assert.Contains(t, result.Message, "password")
	})
}

// Register, login, re-login blocked, logout, login again: the single
// active session lifecycle end to end.
func TestSingleActiveSessionLifecycle(t *testing.T) {
	app, db, _ := newTestServer(t)

	suffix := uniqueSuffix()
	email := fmt.Sprintf("sess-%s@example.com", suffix)
	seedUser(t, db, email, "sess"+suffix, "supersecret", "agent")

	login := func() *serverutils.BaseResponse[dto.LoginResponse] {
		resp := doJSON(t, app, "POST", "/api/auth/login", "", dto.LoginRequest{
			Email:    email,
			Password: "supersecret",
		})
		if resp.StatusCode != 200 {
			return nil
		}
		var result serverutils.BaseResponse[dto.LoginResponse]
		decodeBody(t, resp, &result)
		return &result
	}

	first := login()
	require.NotNil(t, first, "first login should succeed")
	require.NotEmpty(t, first.Data.Tokens.AccessToken)
	require.NotEmpty(t, first.Data.Session.Token)

	t.Run("second login blocked with session metadata", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/auth/login", "", dto.LoginRequest{
			Email:    email,
			Password: "supersecret",
		})
		require.Equal(t, 409, resp.StatusCode)

		var result serverutils.BaseResponse[serverutils.ErrorPayload]
		decodeBody(t, resp, &result)
		assert.Equal(t, "CONFLICT", result.Data.ErrorCode)
		assert.Contains(t, result.Data.Details, "active_session")
	})

	t.Run("blocked login leaves first session usable", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/auth/me", first.Data.Tokens.AccessToken, nil)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("logout then login issues a fresh session", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/auth/logout", first.Data.Tokens.AccessToken, dto.LogoutRequest{
			SessionToken: first.Data.Session.Token,
		})
		require.Equal(t, 200, resp.StatusCode)

		second := login()
		require.NotNil(t, second, "login after logout should succeed")
		assert.NotEqual(t, first.Data.Session.Token, second.Data.Session.Token)
	})
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, db, _ := newTestServer(t)

	suffix := uniqueSuffix()
	email := fmt.Sprintf("cred-%s@example.com", suffix)
	seedUser(t, db, email, "cred"+suffix, "supersecret", "agent")

	t.Run("wrong password", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/auth/login", "", dto.LoginRequest{
			Email:    email,
			Password: "wrongpass",
		})
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("unknown email gets the same answer", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/auth/login", "", dto.LoginRequest{
			Email:    fmt.Sprintf("nobody-%s@example.com", suffix),
			Password: "supersecret",
		})
		assert.Equal(t, 401, resp.StatusCode)
	})
}

func TestRefreshFlow(t *testing.T) {
	app, db, _ := newTestServer(t)

	suffix := uniqueSuffix()
	email := fmt.Sprintf("refresh-%s@example.com", suffix)
	seedUser(t, db, email, "refresh"+suffix, "supersecret", "agent")

	resp := doJSON(t, app, "POST", "/api/auth/login", "", dto.LoginRequest{
		Email:    email,
		Password: "supersecret",
	})
	require.Equal(t, 200, resp.StatusCode)

	var loginRes serverutils.BaseResponse[dto.LoginResponse]
	decodeBody(t, resp, &loginRes)

	t.Run("refresh mints a usable access token", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/auth/refresh", "", dto.RefreshRequest{
			RefreshToken: loginRes.Data.Tokens.RefreshToken,
		})
		require.Equal(t, 200, resp.StatusCode)

		var result serverutils.BaseResponse[dto.RefreshResponse]
		decodeBody(t, resp, &result)
		require.NotEmpty(t, result.Data.AccessToken)

		me := doJSON(t, app, "GET", "/api/auth/me", result.Data.AccessToken, nil)
		assert.Equal(t, 200, me.StatusCode)
	})

	t.Run("refresh rejects garbage", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/auth/refresh", "", dto.RefreshRequest{
			RefreshToken: "garbage",
		})
		assert.Equal(t, 401, resp.StatusCode)
	})
}
