package model

import (
	"errors"
	"fmt"
)

// PermissionLevel is the role flag stored in users.permission_level.
type PermissionLevel int

const (
	PermissionUser  PermissionLevel = 0
	PermissionAdmin PermissionLevel = 1
)

// ErrCorruptPermission is returned when a stored permission level is neither
// User nor Admin.
var ErrCorruptPermission = errors.New("corrupt permission level")

// ParsePermissionLevel decodes the integer stored in the database.
func ParsePermissionLevel(v int64) (PermissionLevel, error) {
	switch PermissionLevel(v) {
	case PermissionUser, PermissionAdmin:
		return PermissionLevel(v), nil
	}
	return 0, fmt.Errorf("%w: %d", ErrCorruptPermission, v)
}

func (p PermissionLevel) String() string {
	switch p {
	case PermissionUser:
		return "User"
	case PermissionAdmin:
		return "Admin"
	}
	return fmt.Sprintf("PermissionLevel(%d)", int(p))
}

// User represents a row of the `users` table.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique, immutable login name.
//	PasswordHash – bcrypt hash (users.password).
//	Profile      – free text shown on the user page; nil when never set.
//	Permission   – User or Admin.
type User struct {
	ID           uint64
	Username     string
	PasswordHash string
	Profile      *string
	Permission   PermissionLevel
}

// IsAdmin reports whether the user holds the Admin permission level.
func (u User) IsAdmin() bool { return u.Permission == PermissionAdmin }

// SessionUser is the identity resolved from a session token: the subset of
// the user row that request handling needs.
type SessionUser struct {
	ID         uint64
	Username   string
	Permission PermissionLevel
}

// IsAdmin reports whether the session belongs to an admin.
func (u SessionUser) IsAdmin() bool { return u.Permission == PermissionAdmin }
