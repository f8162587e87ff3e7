package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/iliyamo/userhub/internal/config"
)

func main() {
	// a missing .env file is fine; the environment may already be set
	_ = godotenv.Load()

	cfg := config.Default()
	app := &cli.App{
		Name:  "userhub",
		Usage: "Accounts, profiles and an admin panel in one small web app",
		Flags: config.Flags(&cfg),
		Commands: []*cli.Command{
			serveCmd(&cfg),
			migrateCmd(&cfg),
			promoteCmd(&cfg),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("userhub failed")
		cancel()
		os.Exit(1)
	}
}
