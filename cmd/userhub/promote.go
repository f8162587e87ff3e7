package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/iliyamo/userhub/internal/config"
	"github.com/iliyamo/userhub/internal/queue"
	"github.com/iliyamo/userhub/internal/repository"
	"github.com/iliyamo/userhub/internal/service"
	"github.com/iliyamo/userhub/internal/utils"
)

// cliActor is recorded as the actor of permission changes made from the
// command line.
const cliActor = "cli"

func promoteCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "promote",
		Usage:     "Make an existing user an admin",
		ArgsUsage: "<username>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("promote takes exactly one username", 2)
			}
			username := c.Args().First()

			ctx, log, err := setup(c.Context, cfg)
			if err != nil {
				return err
			}
			db, err := openDB(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			tokens, err := utils.NewTokenGenerator()
			if err != nil {
				return err
			}
			var events service.EventPublisher = service.NopPublisher{}
			if cfg.AuditEnabled {
				events = queue.NewPublisher(cfg.RabbitMQURL)
			}
			users := repository.NewUserRepo(db)
			accounts := service.NewAccounts(users, repository.NewSessionRepo(db), tokens, events, cfg.BcryptCost, log)

			changed, err := accounts.Promote(ctx, cliActor, username)
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintf(c.App.Writer, "%s is now an admin\n", username)
				return nil
			}
			if _, err := accounts.Profile(ctx, username); err != nil {
				var nsu *service.NoSuchUserError
				if errors.As(err, &nsu) {
					return cli.Exit(nsu.Error(), 1)
				}
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s is already an admin\n", username)
			return nil
		},
	}
}
