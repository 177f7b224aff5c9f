package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDirectKeyOrderIndependent(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")

	assert.Equal(t, DirectKey(a, b), DirectKey(b, a))
	assert.Equal(t, a.String()+":"+b.String(), DirectKey(b, a))
}

func TestDirectKeySelfPair(t *testing.T) {
	a := uuid.New()
	assert.Equal(t, a.String()+":"+a.String(), DirectKey(a, a))
}

func TestValidUserRole(t *testing.T) {
	assert.True(t, ValidUserRole(UserRoleAdmin))
	assert.True(t, ValidUserRole(UserRoleManagement))
	assert.True(t, ValidUserRole(UserRoleAgent))
	assert.False(t, ValidUserRole(UserRole("superuser")))
	assert.False(t, ValidUserRole(UserRole("")))
}

func TestValidMessageType(t *testing.T) {
	assert.True(t, ValidMessageType(MessageTypeText))
	assert.True(t, ValidMessageType(MessageTypeSystem))
	assert.False(t, ValidMessageType(MessageType("video")))
}
