package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"github.com/volunthub/reputation/internal/setup"
	"github.com/volunthub/reputation/internal/worker/streak"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "worker",
		Usage: "Start the reputation engine workers",
		Commands: []*cli.Command{
			{
				Name:  "streak",
				Usage: "Start the daily streak sweep worker",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return runStreakWorker(ctx)
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

func runStreakWorker(ctx context.Context) error {
	app, err := setup.InitializeApp(ctx, true)
	if err != nil {
		return err
	}
	defer app.Cleanup()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := streak.New(app, app.Logger)
	worker.Start(ctx)

	return nil
}
