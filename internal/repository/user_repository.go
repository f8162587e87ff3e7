package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/userhub/internal/model"
	"github.com/iliyamo/userhub/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with the User permission level and returns its ID.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password) VALUES (?,?)",
		username, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUsernameExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return uint64(id), nil
}

// GetByUsername fetches a user including its password hash.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var (
		u       model.User
		profile sql.NullString
		level   int64
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,password,profile,permission_level FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.PasswordHash, &profile, &level)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	if u.Permission, err = model.ParsePermissionLevel(level); err != nil {
		return model.User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	if profile.Valid {
		u.Profile = &profile.String
	}
	return u, nil
}

// UpdateProfile overwrites the profile text of a user.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID uint64, profile string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET profile=? WHERE id=?",
		profile, userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// SetPermission moves a user from one permission level to another. The
// update only applies while the user is still at from, so repeating it is a
// no-op. It reports whether a row changed.
func (r *UserRepo) SetPermission(ctx context.Context, username string, from, to model.PermissionLevel) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET permission_level=? WHERE username=? AND permission_level=?",
		int(to), username, int(from))
	if err != nil {
		return false, fmt.Errorf("set permission: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set permission: %w", err)
	}
	return n > 0, nil
}

// ListUsernames returns up to limit usernames in id order.
func (r *UserRepo) ListUsernames(ctx context.Context, limit int) ([]string, error) {
	return r.listUsernames(ctx,
		"SELECT username FROM users ORDER BY id LIMIT ?", limit)
}

// ListAdmins returns up to limit usernames of admins in id order.
func (r *UserRepo) ListAdmins(ctx context.Context, limit int) ([]string, error) {
	return r.listUsernames(ctx,
		"SELECT username FROM users WHERE permission_level=? ORDER BY id LIMIT ?", int(model.PermissionAdmin), limit)
}

func (r *UserRepo) listUsernames(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return names, nil
}

// DeleteBySession deletes the user owning the session token. Sessions go
// with it through the foreign key cascade. It reports whether a user row was
// removed.
func (r *UserRepo) DeleteBySession(ctx context.Context, token utils.SessionToken) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM users WHERE id = (SELECT user_id FROM sessions WHERE session_token=?)",
		token.Bytes())
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return n > 0, nil
}
