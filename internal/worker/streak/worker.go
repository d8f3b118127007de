// Package streak contains the daily sweep that expires broken streaks.
// Streak extension itself happens inline when activity is recorded; the
// sweep only zeroes counters for users who stopped showing up, so their
// dashboards don't keep displaying a streak that is already broken.
package streak

import (
	"context"
	"time"

	"github.com/volunthub/reputation/internal/database"
	"github.com/volunthub/reputation/internal/setup"
	"github.com/volunthub/reputation/internal/worker/core"
	"go.uber.org/zap"
)

// Worker runs the daily streak sweep.
type Worker struct {
	db        database.Client
	reporter  *core.StatusReporter
	sweepHour int
	logger    *zap.Logger
}

// New creates a new streak sweep worker.
func New(app *setup.App, logger *zap.Logger) *Worker {
	return &Worker{
		db:        app.DB,
		reporter:  core.NewStatusReporter(app.StatusClient, "streak_sweep", logger),
		sweepHour: app.Config.Worker.SweepHourUTC,
		logger:    logger.Named("streak_worker"),
	}
}

// Start begins the worker's main loop: sleep until the configured hour,
// reset stale streaks, repeat. The loop exits when the context is canceled.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Streak sweep worker started", zap.Int("sweepHourUTC", w.sweepHour))

	for {
		next := w.nextRun(time.Now().UTC())
		w.reporter.Report(ctx, "Waiting for next sweep", true)

		select {
		case <-ctx.Done():
			w.logger.Info("Streak sweep worker stopped")
			return
		case <-time.After(time.Until(next)):
		}

		w.reporter.Report(ctx, "Sweeping stale streaks", true)

		if err := w.sweep(ctx); err != nil {
			w.logger.Error("Streak sweep failed", zap.Error(err))
			w.reporter.Report(ctx, "Sweep failed", false)

			continue
		}

		w.reporter.Report(ctx, "Sweep complete", true)
	}
}

// nextRun returns the next occurrence of the configured sweep hour.
func (w *Worker) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), w.sweepHour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	return next
}

// sweep zeroes the streak counter for every account whose last activity was
// before yesterday. A user active yesterday can still extend their streak
// today, so yesterday's accounts are left alone.
func (w *Worker) sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)

	affected, err := w.db.Model().Account().ResetStaleStreaks(ctx, cutoff)
	if err != nil {
		return err
	}

	w.logger.Info("Streak sweep complete", zap.Int64("streaksReset", affected))

	return nil
}
