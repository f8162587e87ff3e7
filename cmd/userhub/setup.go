package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/iliyamo/userhub/internal/config"
	"github.com/iliyamo/userhub/internal/database"
	"github.com/iliyamo/userhub/internal/logutil"
)

// setup validates cfg, builds the logger and stores it in the returned
// context.
func setup(ctx context.Context, cfg *config.Config) (context.Context, zerolog.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return ctx, zerolog.Nop(), err
	}
	logger, err := logutil.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return ctx, zerolog.Nop(), err
	}
	logger = logger.With().Str("env", cfg.Env).Logger()
	return logutil.WithLogger(ctx, logger), logger, nil
}

// openDB opens the configured database and applies pending migrations.
func openDB(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*sql.DB, error) {
	setGooseLogger(log)
	db, err := database.Open(ctx, *cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func setGooseLogger(log zerolog.Logger) { goose.SetLogger(gooseLogger{log}) }

// gooseLogger routes migration output through zerolog.
type gooseLogger struct{ log zerolog.Logger }

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info().Str("component", "migrate").Msgf(format, v...)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatal().Str("component", "migrate").Msgf(format, v...)
}
