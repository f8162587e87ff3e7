// Package auth holds the per-request identity of the caller.
//
// A State is built once per request by the session middleware and is in one
// of three forms:
//
//   - anonymous: the request carried no parsable user_token cookie
//   - unresolved: a token is present but the user has not been looked up
//   - resolved: the token has been looked up once; the outcome (a user, no
//     matching session, or a lookup error) is kept for the rest of the request
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/iliyamo/userhub/internal/model"
	"github.com/iliyamo/userhub/internal/repository"
	"github.com/iliyamo/userhub/internal/utils"
)

// SessionLookup resolves a token to its user. *repository.SessionRepo
// satisfies it; it must return repository.ErrNotFound for unknown tokens.
type SessionLookup interface {
	UserByToken(ctx context.Context, token utils.SessionToken) (model.SessionUser, error)
}

// State is the caller's identity for one request. It is safe to share
// between goroutines serving that request.
type State struct {
	token    utils.SessionToken
	hasToken bool
	lookup   SessionLookup

	once sync.Once
	user *model.SessionUser
	err  error
}

// Anonymous returns the state of a request without a session token.
func Anonymous() *State { return &State{} }

// Unresolved returns the state of a request carrying token.
func Unresolved(token utils.SessionToken, lookup SessionLookup) *State {
	return &State{token: token, hasToken: true, lookup: lookup}
}

// LoggedIn reports whether the request presented a session token. The token
// is not checked against the store.
func (s *State) LoggedIn() bool { return s.hasToken }

// Token returns the presented token.
func (s *State) Token() (utils.SessionToken, bool) { return s.token, s.hasToken }

// User returns the user behind the session token, resolving it on the first
// call. It returns (nil, nil) for anonymous requests and for tokens with no
// matching session. Later calls return the first outcome without touching the
// store.
func (s *State) User(ctx context.Context) (*model.SessionUser, error) {
	if !s.hasToken {
		return nil, nil
	}
	s.once.Do(func() {
		u, err := s.lookup.UserByToken(ctx, s.token)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			s.err = err
		default:
			s.user = &u
		}
	})
	return s.user, s.err
}

// IsAdmin reports whether the caller resolves to an admin. Anonymous callers,
// stale tokens and lookup failures are all not admin.
func (s *State) IsAdmin(ctx context.Context) bool {
	u, err := s.User(ctx)
	return err == nil && u != nil && u.IsAdmin()
}

// Is reports whether the caller resolves to the account named username.
func (s *State) Is(ctx context.Context, username string) bool {
	u, err := s.User(ctx)
	return err == nil && u != nil && u.Username == username
}
