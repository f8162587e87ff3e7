package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/iliyamo/userhub/internal/config"
)

//go:embed migrations
var migrations embed.FS

// Open connects to the database selected by cfg.DBDriver and verifies the
// connection.
func Open(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return OpenMySQL(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.DBPath)
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
}

// OpenMySQL connects to MySQL and verifies the connection.
func OpenMySQL(ctx context.Context, user, pass, host, port, name string) (*sql.DB, error) {
	mc := mysql.NewConfig()
	mc.User = user
	mc.Passwd = pass
	mc.Net = "tcp"
	mc.Addr = host + ":" + port
	mc.DBName = name
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}

	db, err := sql.Open(config.DriverMySQL, mc.FormatDSN())
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens (or creates) a SQLite database file with foreign keys
// enforced. The pool is limited to one connection so writers queue in Go
// instead of failing with SQLITE_BUSY.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	q := url.Values{}
	q.Set("_foreign_keys", "on")
	q.Set("_busy_timeout", "5000")
	q.Set("_journal_mode", "WAL")
	db, err := sql.Open(config.DriverSQLite, "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// Migrate applies all pending migrations for driver.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	dir, err := useDialect(driver)
	if err != nil {
		return err
	}
	return goose.UpContext(ctx, db, dir)
}

// Rollback reverts the most recent migration for driver.
func Rollback(ctx context.Context, db *sql.DB, driver string) error {
	dir, err := useDialect(driver)
	if err != nil {
		return err
	}
	return goose.DownContext(ctx, db, dir)
}

// Status logs the applied/pending state of each migration through goose's
// logger.
func Status(ctx context.Context, db *sql.DB, driver string) error {
	dir, err := useDialect(driver)
	if err != nil {
		return err
	}
	return goose.StatusContext(ctx, db, dir)
}

func useDialect(driver string) (string, error) {
	switch driver {
	case config.DriverMySQL, config.DriverSQLite:
	default:
		return "", fmt.Errorf("no migrations for driver %q", driver)
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(driver); err != nil {
		return "", err
	}
	return "migrations/" + driver, nil
}
