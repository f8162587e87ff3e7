package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/userhub/internal/model"
	"github.com/iliyamo/userhub/internal/repository"
	"github.com/iliyamo/userhub/internal/utils"
)

type countingLookup struct {
	calls int
	user  model.SessionUser
	err   error
}

func (l *countingLookup) UserByToken(context.Context, utils.SessionToken) (model.SessionUser, error) {
	l.calls++
	return l.user, l.err
}

func TestAnonymous(t *testing.T) {
	s := Anonymous()
	assert.False(t, s.LoggedIn())
	_, ok := s.Token()
	assert.False(t, ok)

	u, err := s.User(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, u)
	assert.False(t, s.IsAdmin(context.Background()))
	assert.False(t, s.Is(context.Background(), ""))
}

func TestResolveOnce(t *testing.T) {
	lookup := &countingLookup{user: model.SessionUser{ID: 1, Username: "alice", Permission: model.PermissionAdmin}}
	s := Unresolved(utils.SessionToken{1}, lookup)
	assert.True(t, s.LoggedIn())
	assert.Zero(t, lookup.calls, "construction does not query the store")

	ctx := context.Background()
	u, err := s.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	u2, err := s.User(ctx)
	require.NoError(t, err)
	assert.Same(t, u, u2)
	assert.True(t, s.IsAdmin(ctx))
	assert.True(t, s.Is(ctx, "alice"))
	assert.False(t, s.Is(ctx, "bob"))
	assert.Equal(t, 1, lookup.calls)
}

func TestStaleTokenResolvesToNobody(t *testing.T) {
	lookup := &countingLookup{err: repository.ErrNotFound}
	s := Unresolved(utils.SessionToken{2}, lookup)

	u, err := s.User(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, u)
	assert.True(t, s.LoggedIn())
	assert.False(t, s.IsAdmin(context.Background()))
	_, _ = s.User(context.Background())
	assert.Equal(t, 1, lookup.calls)
}

func TestLookupErrorIsMemoized(t *testing.T) {
	boom := errors.New("db down")
	lookup := &countingLookup{err: boom}
	s := Unresolved(utils.SessionToken{3}, lookup)

	_, err := s.User(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.IsAdmin(context.Background()))
	assert.Equal(t, 1, lookup.calls)
}

func TestNonAdmin(t *testing.T) {
	lookup := &countingLookup{user: model.SessionUser{ID: 1, Username: "bob"}}
	s := Unresolved(utils.SessionToken{4}, lookup)
	assert.False(t, s.IsAdmin(context.Background()))
}
