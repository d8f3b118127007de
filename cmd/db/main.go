package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"github.com/volunthub/reputation/internal/database"
	"github.com/volunthub/reputation/internal/database/migrations"
	"github.com/volunthub/reputation/internal/forum"
	"github.com/volunthub/reputation/internal/setup"
	"github.com/volunthub/reputation/internal/setup/config"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	// Setup dependencies
	db, migrator, logger, err := setupCLI()
	if err != nil {
		return fmt.Errorf("failed to setup database tool: %w", err)
	}
	defer db.Close()

	app := &cli.Command{
		Name:  "db",
		Usage: "Reputation database management tool",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Initialize migration tables",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return migrator.Init(ctx)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run pending migrations",
				Action: func(ctx context.Context, _ *cli.Command) error {
					if err := migrator.Lock(ctx); err != nil {
						return err
					}
					defer migrator.Unlock(ctx) //nolint:errcheck

					group, err := migrator.Migrate(ctx)
					if err != nil {
						return err
					}

					if group.IsZero() {
						logger.Info("No new migrations to run (database is up to date)")
						return nil
					}

					logger.Info("Successfully migrated", zap.String("group", group.String()))

					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "Rollback the last migration group",
				Action: func(ctx context.Context, _ *cli.Command) error {
					if err := migrator.Lock(ctx); err != nil {
						return err
					}
					defer migrator.Unlock(ctx) //nolint:errcheck

					group, err := migrator.Rollback(ctx)
					if err != nil {
						return err
					}

					if group.IsZero() {
						logger.Info("No migrations to rollback")
						return nil
					}

					logger.Info("Successfully rolled back", zap.String("group", group.String()))

					return nil
				},
			},
			{
				Name:  "status",
				Usage: "Show migration status",
				Action: func(ctx context.Context, _ *cli.Command) error {
					status, err := migrator.MigrationsWithStatus(ctx)
					if err != nil {
						return err
					}

					logger.Info("Migration status",
						zap.String("migrations", status.String()),
						zap.String("unapplied", status.Unapplied().String()),
						zap.String("lastGroup", status.LastGroup().String()))

					return nil
				},
			},
			{
				Name:  "seed-badges",
				Usage: "Install the standard badge catalogue (idempotent)",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return db.Service().Badge().Seed(ctx)
				},
			},
			{
				Name:  "recalculate",
				Usage: "Rebuild reputation state from forum source facts",
				Flags: []cli.Flag{
					&cli.UintFlag{
						Name:  "user",
						Usage: "Recalculate a single user ID",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Recalculate every account",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Value: 500,
						Usage: "Accounts fetched per batch during a full sweep",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Value: 4,
						Usage: "Users recalculated in parallel during a full sweep",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					source := forum.NewSource(db.DB(), logger)
					recalc := db.Service().Recalculation()

					if c.Bool("all") {
						processed, err := recalc.RecalculateAll(
							ctx, source, int(c.Int("batch-size")), int(c.Int("concurrency")),
						)
						if err != nil {
							return err
						}

						logger.Info("Full recalculation complete", zap.Int64("accounts", processed))

						return nil
					}

					userID := c.Uint("user")
					if userID == 0 {
						return cli.Exit("either --user or --all is required", 1)
					}

					account, err := recalc.Recalculate(ctx, source, userID)
					if err != nil {
						return err
					}

					logger.Info("Recalculation complete",
						zap.Uint64("userID", userID),
						zap.Int64("totalPoints", account.TotalPoints),
						zap.String("rank", account.Rank))

					return nil
				},
			},
			{
				Name:  "audit",
				Usage: "Compare an account total against its replayed history",
				Flags: []cli.Flag{
					&cli.UintFlag{
						Name:     "user",
						Usage:    "User ID to audit",
						Required: true,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					consistent, err := db.Service().Ledger().AuditHistory(ctx, c.Uint("user"))
					if err != nil {
						return err
					}

					if !consistent {
						return cli.Exit("account total does not match replayed history", 1)
					}

					logger.Info("Account is consistent with its history")

					return nil
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// setupCLI initializes the database connection and migrator without the full
// application stack; the db tool has no need for Redis.
func setupCLI() (database.Client, *migrate.Migrator, *zap.Logger, error) {
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := setup.NewLogger(cfg.Debug.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := database.NewConnection(context.Background(), cfg, logger, false)
	if err != nil {
		return nil, nil, nil, err
	}

	migrator := migrate.NewMigrator(db.DB(), migrations.Migrations)

	return db, migrator, logger, nil
}
