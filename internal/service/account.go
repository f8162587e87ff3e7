// Package service implements the account operations behind the HTTP
// handlers: signup, login, account deletion, profiles and admin promotion.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/userhub/internal/auth"
	"github.com/iliyamo/userhub/internal/model"
	"github.com/iliyamo/userhub/internal/queue"
	"github.com/iliyamo/userhub/internal/repository"
	"github.com/iliyamo/userhub/internal/utils"
)

const (
	// MinPasswordLength is the shortest accepted password, in bytes.
	MinPasswordLength = 8
	// MaxUsernameLength is the longest accepted username.
	MaxUsernameLength = 19
	// ListLimit caps the directory and admin listings.
	ListLimit = 100
)

// User-facing failures. Their messages are shown on the error page.
var (
	ErrPasswordsDoNotMatch = errors.New("Passwords do not match")
	ErrInvalidPassword     = errors.New("Invalid Password")
	ErrInvalidUsername     = errors.New("Invalid username")
	ErrUsernameExists      = errors.New("Username already exists")
	ErrUserDoesNotExist    = errors.New("User does not exist")
	ErrWrongPassword       = errors.New("Wrong password")
	ErrNotLoggedIn         = errors.New("Not logged in")
	ErrNotAdmin            = errors.New("Not an admin")
)

// NoSuchUserError is returned when a profile is requested for an unknown
// username.
type NoSuchUserError struct{ Username string }

func (e *NoSuchUserError) Error() string {
	return fmt.Sprintf("could not find user '%s'", e.Username)
}

// UserStore is the user persistence used by Accounts.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (uint64, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	UpdateProfile(ctx context.Context, userID uint64, profile string) error
	SetPermission(ctx context.Context, username string, from, to model.PermissionLevel) (bool, error)
	ListUsernames(ctx context.Context, limit int) ([]string, error)
	ListAdmins(ctx context.Context, limit int) ([]string, error)
	DeleteBySession(ctx context.Context, token utils.SessionToken) (bool, error)
}

// SessionStore persists issued session tokens.
type SessionStore interface {
	Create(ctx context.Context, token utils.SessionToken, userID uint64) error
}

// EventPublisher receives account events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.AccountEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.AccountEvent) error { return nil }

// Accounts bundles dependencies for the account operations.
type Accounts struct {
	Users      UserStore
	Sessions   SessionStore
	Tokens     *utils.TokenGenerator
	Events     EventPublisher
	BcryptCost int
	Log        zerolog.Logger
}

func NewAccounts(users UserStore, sessions SessionStore, tokens *utils.TokenGenerator, events EventPublisher, bcryptCost int, log zerolog.Logger) *Accounts {
	if users == nil || sessions == nil || tokens == nil {
		panic("nil dependency passed to NewAccounts")
	}
	if events == nil {
		events = NopPublisher{}
	}
	return &Accounts{Users: users, Sessions: sessions, Tokens: tokens, Events: events, BcryptCost: bcryptCost, Log: log}
}

// SignupInput is the signup form.
type SignupInput struct {
	Username        string
	Password        string
	ConfirmPassword string
}

// ValidUsername reports whether name is 1–19 characters of [a-z0-9-].
func ValidUsername(name string) bool {
	if len(name) < 1 || len(name) > MaxUsernameLength {
		return false
	}
	for _, c := range name {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-') {
			return false
		}
	}
	return true
}

// Signup creates an account and returns a session token for it. Password
// checks run before anything is hashed or stored.
func (a *Accounts) Signup(ctx context.Context, in SignupInput) (utils.SessionToken, error) {
	if in.Password != in.ConfirmPassword {
		return utils.SessionToken{}, ErrPasswordsDoNotMatch
	}
	if len(in.Password) < MinPasswordLength {
		return utils.SessionToken{}, ErrInvalidPassword
	}
	if !ValidUsername(in.Username) {
		return utils.SessionToken{}, ErrInvalidUsername
	}

	hash, err := utils.HashPassword(in.Password, a.BcryptCost)
	if err != nil {
		a.Log.Info().Err(err).Msg("signup rejected: password cannot be hashed")
		return utils.SessionToken{}, ErrInvalidPassword
	}

	id, err := a.Users.Create(ctx, in.Username, hash)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			a.Log.Info().Str("username", in.Username).Msg("signup rejected: username already exists")
			return utils.SessionToken{}, ErrUsernameExists
		}
		return utils.SessionToken{}, fmt.Errorf("signup %q: %w", in.Username, err)
	}

	tok, err := a.newSession(ctx, id)
	if err != nil {
		return utils.SessionToken{}, err
	}
	a.publish(ctx, queue.NewAccountEvent(queue.EventSignedUp, in.Username, ""))
	return tok, nil
}

// Login verifies credentials and returns a new session token.
func (a *Accounts) Login(ctx context.Context, username, password string) (utils.SessionToken, error) {
	u, err := a.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			a.Log.Info().Str("username", username).Msg("login rejected: user does not exist")
			return utils.SessionToken{}, ErrUserDoesNotExist
		}
		return utils.SessionToken{}, fmt.Errorf("login %q: %w", username, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		a.Log.Info().Str("username", username).Msg("login rejected: wrong password")
		return utils.SessionToken{}, ErrWrongPassword
	}

	tok, err := a.newSession(ctx, u.ID)
	if err != nil {
		return utils.SessionToken{}, err
	}
	a.publish(ctx, queue.NewAccountEvent(queue.EventLoggedIn, u.Username, ""))
	return tok, nil
}

func (a *Accounts) newSession(ctx context.Context, userID uint64) (utils.SessionToken, error) {
	tok := a.Tokens.New()
	if err := a.Sessions.Create(ctx, tok, userID); err != nil {
		return utils.SessionToken{}, fmt.Errorf("new session for user %d: %w", userID, err)
	}
	return tok, nil
}

// DeleteAccount removes the account behind the caller's session token.
// A token with no matching session deletes nothing. The delete goes by token
// alone; the resolved user only names the account in the log and the event.
func (a *Accounts) DeleteAccount(ctx context.Context, st *auth.State) error {
	tok, ok := st.Token()
	if !ok {
		return ErrNotLoggedIn
	}
	u, lookupErr := st.User(ctx)
	deleted, err := a.Users.DeleteBySession(ctx, tok)
	if err != nil {
		return err
	}
	if !deleted {
		return nil
	}
	if u == nil {
		a.Log.Warn().Err(lookupErr).Msg("account deleted; owner could not be resolved")
		return nil
	}
	a.Log.Info().Str("username", u.Username).Msg("account deleted")
	a.publish(ctx, queue.NewAccountEvent(queue.EventDeleted, u.Username, ""))
	return nil
}

// UpdateProfile overwrites the profile text of user.
func (a *Accounts) UpdateProfile(ctx context.Context, user model.SessionUser, profile string) error {
	return a.Users.UpdateProfile(ctx, user.ID, profile)
}

// Profile returns the public view of username.
func (a *Accounts) Profile(ctx context.Context, username string) (model.User, error) {
	u, err := a.Users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, &NoSuchUserError{Username: username}
	}
	return u, err
}

// Directory lists up to ListLimit usernames.
func (a *Accounts) Directory(ctx context.Context) ([]string, error) {
	return a.Users.ListUsernames(ctx, ListLimit)
}

// AdminOverview returns every listed user and every admin except viewer.
func (a *Accounts) AdminOverview(ctx context.Context, viewer string) (users, admins []string, err error) {
	if users, err = a.Users.ListUsernames(ctx, ListLimit); err != nil {
		return nil, nil, err
	}
	all, err := a.Users.ListAdmins(ctx, ListLimit)
	if err != nil {
		return nil, nil, err
	}
	admins = make([]string, 0, len(all))
	for _, name := range all {
		if name != viewer {
			admins = append(admins, name)
		}
	}
	return users, admins, nil
}

// Promote makes username an admin if it is currently a plain user. It
// reports whether anything changed; unknown users and existing admins are
// left alone.
func (a *Accounts) Promote(ctx context.Context, actor, username string) (bool, error) {
	return a.setPermission(ctx, actor, username, model.PermissionUser, model.PermissionAdmin, queue.EventPromoted)
}

// Demote turns admin username back into a plain user. Demoting a non-admin
// is a no-op.
func (a *Accounts) Demote(ctx context.Context, actor, username string) (bool, error) {
	return a.setPermission(ctx, actor, username, model.PermissionAdmin, model.PermissionUser, queue.EventDemoted)
}

func (a *Accounts) setPermission(ctx context.Context, actor, username string, from, to model.PermissionLevel, typ queue.AccountEventType) (bool, error) {
	changed, err := a.Users.SetPermission(ctx, username, from, to)
	if err != nil {
		return false, err
	}
	if changed {
		a.Log.Info().Str("username", username).Str("actor", actor).Stringer("permission", to).Msg("permission changed")
		a.publish(ctx, queue.NewAccountEvent(typ, username, actor))
	}
	return changed, nil
}

// publish sends ev without letting a broker failure or a cancelled request
// affect the caller.
func (a *Accounts) publish(ctx context.Context, ev queue.AccountEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := a.Events.Publish(ctx, ev); err != nil {
		a.Log.Warn().Err(err).Str("event", string(ev.Type)).Str("username", ev.Username).Msg("publish account event failed")
	}
}
