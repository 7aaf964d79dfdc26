package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleUser))
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleSuperadmin))
	assert.False(t, ValidRole("root"))
	assert.False(t, ValidRole(""))
}

func TestValidUserStatus(t *testing.T) {
	assert.True(t, ValidUserStatus(UserStatusPending))
	assert.True(t, ValidUserStatus(UserStatusActive))
	assert.True(t, ValidUserStatus(UserStatusRejected))
	assert.False(t, ValidUserStatus("banned"))
}

func TestUserJSONNeverLeaksPasswordHash(t *testing.T) {
	user := User{
		ID:           "u1",
		Email:        "user@example.com",
		PasswordHash: "$2a$10$secret",
		Name:         "Test User",
		Role:         RoleUser,
		Status:       UserStatusActive,
	}

	for _, v := range []interface{}{user, user.ToUserResponse()} {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "secret")
		assert.NotContains(t, string(data), "password_hash")
	}
}

func TestUserPatchFields(t *testing.T) {
	name := "New Name"
	role := RoleAdmin

	patch := UserPatch{Name: &name, Role: &role}
	assert.ElementsMatch(t, []string{"name", "role"}, patch.Fields())

	assert.Empty(t, UserPatch{}.Fields())
}
