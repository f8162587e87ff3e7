package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/iliyamo/userhub/internal/config"
	"github.com/iliyamo/userhub/internal/database"
)

// OpenTestDB opens a migrated SQLite database in a temporary directory.
// The database is closed when the test ends.
func OpenTestDB(t testing.TB) *sql.DB {
	t.Helper()
	goose.SetLogger(goose.NopLogger())
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "userhub-test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(ctx, db, config.DriverSQLite); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// CountSessions returns how many session rows belong to userID.
func CountSessions(t testing.TB, db *sql.DB, userID uint64) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sessions WHERE user_id=?", userID).Scan(&n); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	return n
}
