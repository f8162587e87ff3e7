package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/userhub/internal/model"
	"github.com/iliyamo/userhub/internal/utils"
)

// SessionRepo persists session tokens in their 16-byte little-endian form.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create binds a new token to a user.
func (r *SessionRepo) Create(ctx context.Context, token utils.SessionToken, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (session_token, user_id) VALUES (?,?)",
		token.Bytes(), userID)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// UserByToken resolves a token to the owning user with a single join.
func (r *SessionRepo) UserByToken(ctx context.Context, token utils.SessionToken) (model.SessionUser, error) {
	var (
		u     model.SessionUser
		level int64
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT users.id, users.username, users.permission_level FROM users JOIN sessions ON sessions.user_id = users.id WHERE sessions.session_token=? LIMIT 1",
		token.Bytes()).Scan(&u.ID, &u.Username, &level)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SessionUser{}, ErrNotFound
		}
		return model.SessionUser{}, fmt.Errorf("resolve session: %w", err)
	}
	if u.Permission, err = model.ParsePermissionLevel(level); err != nil {
		return model.SessionUser{}, fmt.Errorf("resolve session for %q: %w", u.Username, err)
	}
	return u, nil
}
