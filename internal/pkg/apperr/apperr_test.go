package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatusCodes(t *testing.T) {
	assert.Equal(t, 400, KindValidation.StatusCode())
	assert.Equal(t, 401, KindAuthentication.StatusCode())
	assert.Equal(t, 403, KindAuthorization.StatusCode())
	assert.Equal(t, 404, KindNotFound.StatusCode())
	assert.Equal(t, 409, KindConflict.StatusCode())
	assert.Equal(t, 500, KindInternal.StatusCode())
}

func TestKindCodes(t *testing.T) {
	assert.Equal(t, "VALIDATION_ERROR", KindValidation.Code())
	assert.Equal(t, "AUTHENTICATION_ERROR", KindAuthentication.Code())
	assert.Equal(t, "AUTHORIZATION_ERROR", KindAuthorization.Code())
	assert.Equal(t, "NOT_FOUND", KindNotFound.Code())
	assert.Equal(t, "CONFLICT", KindConflict.Code())
	assert.Equal(t, "INTERNAL_ERROR", KindInternal.Code())
}

func TestFromPassesThroughAppError(t *testing.T) {
	original := Conflict("already exists")
	got := From(original)
	assert.Same(t, original, got)
}

func TestFromWrapsUnknownError(t *testing.T) {
	cause := errors.New("connection refused")
	got := From(cause)
	assert.Equal(t, KindInternal, got.Kind)
	assert.ErrorIs(t, got, cause)
}

func TestInternalHidesCauseBehindMessage(t *testing.T) {
	cause := errors.New("pq: syntax error")
	err := Internal("failed to load user", cause)
	assert.Contains(t, err.Error(), "failed to load user")
	assert.ErrorIs(t, err, cause)
}

func TestWithDetails(t *testing.T) {
	err := Conflict("already logged in").WithDetails(map[string]interface{}{
		"active_session": "meta",
	})
	assert.Equal(t, "meta", err.Details["active_session"])
}

func TestIsKind(t *testing.T) {
	err := NotFound("missing")
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}
