package main

import (
	"github.com/urfave/cli/v2"

	"github.com/iliyamo/userhub/internal/config"
	"github.com/iliyamo/userhub/internal/database"
)

func migrateCmd(cfg *config.Config) *cli.Command {
	step := func(name, usage string, run func(c *cli.Context) error) *cli.Command {
		return &cli.Command{Name: name, Usage: usage, Action: run}
	}
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Subcommands: []*cli.Command{
			step("up", "Apply all pending migrations", func(c *cli.Context) error {
				ctx, log, err := setup(c.Context, cfg)
				if err != nil {
					return err
				}
				db, err := openDB(ctx, cfg, log)
				if err != nil {
					return err
				}
				return db.Close()
			}),
			step("down", "Roll back the latest migration", func(c *cli.Context) error {
				ctx, log, err := setup(c.Context, cfg)
				if err != nil {
					return err
				}
				db, err := database.Open(ctx, *cfg)
				if err != nil {
					return err
				}
				defer db.Close()
				setGooseLogger(log)
				return database.Rollback(ctx, db, cfg.DBDriver)
			}),
			step("status", "Print applied and pending migrations", func(c *cli.Context) error {
				ctx, log, err := setup(c.Context, cfg)
				if err != nil {
					return err
				}
				db, err := database.Open(ctx, *cfg)
				if err != nil {
					return err
				}
				defer db.Close()
				setGooseLogger(log)
				return database.Status(ctx, db, cfg.DBDriver)
			}),
		},
	}
}
