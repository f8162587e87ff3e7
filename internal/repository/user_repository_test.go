package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/userhub/internal/model"
	"github.com/iliyamo/userhub/internal/utils"
)

func newUserRepoWithMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

func TestUserCreate_Success(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (username, password) VALUES (?,?)")).
		WithArgs("alice", "hash").
		WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := repo.Create(context.Background(), "alice", "hash")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreate_DuplicateMySQL(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'uq_users_username'"})

	_, err := repo.Create(context.Background(), "alice", "hash")
	assert.True(t, errors.Is(err, ErrUsernameExists))
}

func TestUserCreate_OtherError(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1040, Message: "Too many connections"})

	_, err := repo.Create(context.Background(), "alice", "hash")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUsernameExists))
	assert.Contains(t, err.Error(), "insert user")
}

func TestUserGetByUsername(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	q := `^SELECT id,username,password,profile,permission_level FROM users WHERE username=\? LIMIT 1$`
	mock.ExpectQuery(q).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "profile", "permission_level"}).
			AddRow(7, "alice", "hash", nil, 1))

	u, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u.ID)
	assert.Nil(t, u.Profile)
	assert.Equal(t, model.PermissionAdmin, u.Permission)
}

func TestUserGetByUsername_Profile(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	mock.ExpectQuery("SELECT id,username").WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "profile", "permission_level"}).
			AddRow(8, "bob", "hash", "hello", 0))

	u, err := repo.GetByUsername(context.Background(), "bob")
	require.NoError(t, err)
	require.NotNil(t, u.Profile)
	assert.Equal(t, "hello", *u.Profile)
	assert.Equal(t, model.PermissionUser, u.Permission)
}

func TestUserGetByUsername_NotFound(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	mock.ExpectQuery("SELECT id,username").WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUserGetByUsername_CorruptPermission(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	mock.ExpectQuery("SELECT id,username").WithArgs("eve").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "profile", "permission_level"}).
			AddRow(9, "eve", "hash", nil, 5))

	_, err := repo.GetByUsername(context.Background(), "eve")
	assert.True(t, errors.Is(err, model.ErrCorruptPermission))
}

func TestUserSetPermission(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	q := regexp.QuoteMeta("UPDATE users SET permission_level=? WHERE username=? AND permission_level=?")
	mock.ExpectExec(q).WithArgs(1, "alice", 0).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(1, "alice", 0).WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.SetPermission(context.Background(), "alice", model.PermissionUser, model.PermissionAdmin)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.SetPermission(context.Background(), "alice", model.PermissionUser, model.PermissionAdmin)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserListAdmins(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT username FROM users WHERE permission_level=? ORDER BY id LIMIT ?")).
		WithArgs(1, 100).
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("root").AddRow("alice"))

	names, err := repo.ListAdmins(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "alice"}, names)
}

func TestUserListUsernames_Empty(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	mock.ExpectQuery("SELECT username FROM users ORDER BY id LIMIT").
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{"username"}))

	names, err := repo.ListUsernames(context.Background(), 100)
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestUserDeleteBySession(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	tok := utils.SessionToken{1, 2, 3}
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = (SELECT user_id FROM sessions WHERE session_token=?)")).
		WithArgs(tok.Bytes()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.DeleteBySession(context.Background(), tok)
	require.NoError(t, err)
	assert.True(t, deleted)
}
