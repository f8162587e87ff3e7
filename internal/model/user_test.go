package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePermissionLevel(t *testing.T) {
	p, err := ParsePermissionLevel(0)
	require.NoError(t, err)
	assert.Equal(t, PermissionUser, p)

	p, err = ParsePermissionLevel(1)
	require.NoError(t, err)
	assert.Equal(t, PermissionAdmin, p)

	for _, v := range []int64{-1, 2, 255} {
		_, err := ParsePermissionLevel(v)
		assert.True(t, errors.Is(err, ErrCorruptPermission), "value %d", v)
	}
}

func TestPermissionLevelString(t *testing.T) {
	assert.Equal(t, "User", PermissionUser.String())
	assert.Equal(t, "Admin", PermissionAdmin.String())
	assert.Equal(t, "PermissionLevel(7)", PermissionLevel(7).String())
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, User{Permission: PermissionAdmin}.IsAdmin())
	assert.False(t, User{Permission: PermissionUser}.IsAdmin())
	assert.True(t, SessionUser{Permission: PermissionAdmin}.IsAdmin())
	assert.False(t, SessionUser{}.IsAdmin())
}
