package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/userhub/internal/model"
	"github.com/iliyamo/userhub/internal/testutil"
	"github.com/iliyamo/userhub/internal/utils"
)

func TestSQLiteUserAndSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	users, sessions := NewUserRepo(db), NewSessionRepo(db)

	id, err := users.Create(ctx, "alice", "hash")
	require.NoError(t, err)

	_, err = users.Create(ctx, "alice", "other")
	assert.True(t, errors.Is(err, ErrUsernameExists))

	// usernames are case-sensitive
	_, err = users.Create(ctx, "Alice", "hash")
	require.NoError(t, err)

	tok := utils.NewTokenGeneratorFromSeed([32]byte{3}).New()
	require.NoError(t, sessions.Create(ctx, tok, id))

	su, err := sessions.UserByToken(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, model.SessionUser{ID: id, Username: "alice", Permission: model.PermissionUser}, su)

	_, err = sessions.UserByToken(ctx, utils.SessionToken{0xff})
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, users.UpdateProfile(ctx, id, "hi there"))
	u, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, u.Profile)
	assert.Equal(t, "hi there", *u.Profile)

	changed, err := users.SetPermission(ctx, "alice", model.PermissionUser, model.PermissionAdmin)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = users.SetPermission(ctx, "alice", model.PermissionUser, model.PermissionAdmin)
	require.NoError(t, err)
	assert.False(t, changed)

	admins, err := users.ListAdmins(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, admins)

	all, err := users.ListUsernames(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "Alice"}, all)

	assert.Equal(t, 1, testutil.CountSessions(t, db, id))

	deleted, err := users.DeleteBySession(ctx, tok)
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.Zero(t, testutil.CountSessions(t, db, id), "sessions cascade with the user")

	_, err = users.GetByUsername(ctx, "alice")
	assert.True(t, errors.Is(err, ErrNotFound))

	deleted, err = users.DeleteBySession(ctx, tok)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSQLiteListUsernamesLimit(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepo(testutil.OpenTestDB(t))
	for _, name := range []string{"a", "b", "c"} {
		_, err := users.Create(ctx, name, "hash")
		require.NoError(t, err)
	}
	names, err := users.ListUsernames(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestSQLiteCorruptPermissionLevel(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenTestDB(t)
	users := NewUserRepo(db)
	_, err := users.Create(ctx, "mallory", "hash")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "UPDATE users SET permission_level = 7 WHERE username = 'mallory'")
	require.NoError(t, err)

	_, err = users.GetByUsername(ctx, "mallory")
	assert.True(t, errors.Is(err, model.ErrCorruptPermission))
}
