package dto

import (
	"testing"

	"chatdesk-be/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegisterRequest(t *testing.T) {
	valid := RegisterRequest{
		Email:    "agent@example.com",
		Username: "agent1",
		Password: "supersecret",
	}
	assert.NoError(t, Validate(valid))
}

func TestValidateRejectsMissingEmail(t *testing.T) {
	req := RegisterRequest{Username: "agent1", Password: "supersecret"}
	err := Validate(req)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "email")
}

func TestValidateRejectsBadEmail(t *testing.T) {
	req := RegisterRequest{Email: "not-an-email", Username: "agent1", Password: "supersecret"}
	err := Validate(req)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestValidateRejectsShortPassword(t *testing.T) {
	req := RegisterRequest{Email: "agent@example.com", Username: "agent1", Password: "short"}
	err := Validate(req)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "password")
}

func TestValidateRejectsShortUsername(t *testing.T) {
	req := RegisterRequest{Email: "agent@example.com", Username: "ab", Password: "supersecret"}
	err := Validate(req)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "username")
}

func TestValidateLoginRequest(t *testing.T) {
	assert.NoError(t, Validate(LoginRequest{Email: "agent@example.com", Password: "x"}))
	assert.Error(t, Validate(LoginRequest{Email: "agent@example.com"}))
	assert.Error(t, Validate(LoginRequest{Password: "x"}))
}
