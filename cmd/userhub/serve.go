package main

import (
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/iliyamo/userhub/internal/config"
	"github.com/iliyamo/userhub/internal/httpserver"
	"github.com/iliyamo/userhub/internal/queue"
	"github.com/iliyamo/userhub/internal/repository"
	"github.com/iliyamo/userhub/internal/router"
	"github.com/iliyamo/userhub/internal/service"
	"github.com/iliyamo/userhub/internal/utils"
)

func serveCmd(cfg *config.Config) *cli.Command {
	var runConsumer bool
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "audit-consumer",
				Usage:       "Also consume account events into the audit log",
				EnvVars:     []string{"AUDIT_CONSUMER"},
				Destination: &runConsumer,
			},
		},
		Action: func(c *cli.Context) error {
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
				log.Info().Msg("publishing account events to RabbitMQ")
			}

			users, sessions := repository.NewUserRepo(db), repository.NewSessionRepo(db)
			accounts := service.NewAccounts(users, sessions, tokens, events, cfg.BcryptCost, log)

			rl := config.LoadRateLimitConfig()
			var rdb *redis.Client
			if rl.Enabled {
				rdb, err = config.NewRedisClient(ctx, config.LoadRedisConfig())
				if err != nil {
					log.Warn().Err(err).Msg("redis unavailable; rate limiting disabled")
					rdb = nil
				} else {
					defer rdb.Close()
				}
			}

			if runConsumer {
				go func() {
					if err := queue.StartAuditConsumer(ctx, cfg.RabbitMQURL, cfg.AuditLogPath, log); err != nil && ctx.Err() == nil {
						log.Error().Err(err).Msg("audit consumer stopped")
					}
				}()
			}

			e, err := router.New(router.Deps{
				Accounts:  accounts,
				Sessions:  sessions,
				DB:        db,
				Redis:     rdb,
				RateLimit: rl,
				Log:       log,
			})
			if err != nil {
				return err
			}
			return httpserver.Serve(ctx, ":"+cfg.Port, e)
		},
	}
}
