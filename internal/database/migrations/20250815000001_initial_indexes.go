package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			// History entries are read newest-first per user, and summed over
			// trailing windows for dashboard gains.
			`CREATE INDEX IF NOT EXISTS idx_reputation_history_user_created
				ON reputation_history (user_id, created_at DESC)`,
			// Leaderboard ordering: points descending, ties broken by the
			// earliest account creation.
			`CREATE INDEX IF NOT EXISTS idx_reputation_accounts_leaderboard
				ON reputation_accounts (total_points DESC, created_at ASC)`,
			// Streak sweep scans for stale streaks.
			`CREATE INDEX IF NOT EXISTS idx_reputation_accounts_last_activity
				ON reputation_accounts (last_activity_date)
				WHERE consecutive_days_active > 0`,
			`CREATE INDEX IF NOT EXISTS idx_user_badges_user
				ON user_badges (user_id, earned_at DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_badges_active
				ON badges (is_active) WHERE is_active`,
		}

		for _, idx := range indexes {
			if _, err := db.NewRaw(idx).Exec(ctx); err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		indexes := []string{
			"idx_reputation_history_user_created",
			"idx_reputation_accounts_leaderboard",
			"idx_reputation_accounts_last_activity",
			"idx_user_badges_user",
			"idx_badges_active",
		}

		for _, idx := range indexes {
			if _, err := db.NewRaw(fmt.Sprintf("DROP INDEX IF EXISTS %s", idx)).Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop index: %w", err)
			}
		}

		return nil
	})
}
