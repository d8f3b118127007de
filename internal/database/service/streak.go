package service

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"github.com/volunthub/reputation/internal/database/dbretry"
	"github.com/volunthub/reputation/internal/database/models"
	"github.com/volunthub/reputation/internal/database/types"
	"github.com/volunthub/reputation/internal/database/types/enum"
	"github.com/volunthub/reputation/internal/setup/config"
	"go.uber.org/zap"
)

// StreakState is the outcome of the pure streak date calculation.
type StreakState struct {
	// Days is the consecutive-day count after this activity.
	Days int
	// NewDay is false when the user was already active today, making the
	// whole operation a no-op.
	NewDay bool
}

// NextStreak computes the streak state for an activity happening today given
// the previous activity date. Dates are compared as UTC calendar days: an
// unbroken streak requires activity on the immediately preceding day.
func NextStreak(last *time.Time, today time.Time, current int) StreakState {
	if last == nil {
		return StreakState{Days: 1, NewDay: true}
	}

	lastDay := last.UTC().Truncate(24 * time.Hour)
	todayDay := today.UTC().Truncate(24 * time.Hour)

	switch {
	case lastDay.Equal(todayDay):
		return StreakState{Days: current, NewDay: false}
	case lastDay.Equal(todayDay.AddDate(0, 0, -1)):
		return StreakState{Days: current + 1, NewDay: true}
	default:
		return StreakState{Days: 1, NewDay: true}
	}
}

// StreakBonusDue reports whether reaching this streak day earns the bonus
// award: every multiple of the configured streak length. A non-positive
// length disables bonuses entirely.
func StreakBonusDue(days, streakLength int) bool {
	return streakLength > 0 && days > 0 && days%streakLength == 0
}

// StreakService maintains consecutive-day activity counts and awards the
// daily participation point plus streak bonuses through the ledger.
type StreakService struct {
	db      *bun.DB
	account *models.AccountModel
	ledger  *LedgerService
	badges  *BadgeService
	points  *config.Points
	logger  *zap.Logger
}

// NewStreak creates a new streak service.
func NewStreak(
	db *bun.DB,
	account *models.AccountModel,
	ledger *LedgerService,
	badges *BadgeService,
	points *config.Points,
	logger *zap.Logger,
) *StreakService {
	return &StreakService{
		db:      db,
		account: account,
		ledger:  ledger,
		badges:  badges,
		points:  points,
		logger:  logger.Named("streak_service"),
	}
}

// RecordDailyActivity registers activity for today. The first call of a new
// UTC day extends or restarts the streak and awards the daily point; streaks
// reaching a multiple of the configured length earn an extra bonus entry.
// Further calls the same day are no-ops. Everything runs in one transaction.
func (s *StreakService) RecordDailyActivity(ctx context.Context, userID uint64) (*types.ReputationAccount, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ReputationAccount, error) {
		var account *types.ReputationAccount

		err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			var err error

			account, err = s.ledger.lockAccount(ctx, tx, userID)
			if err != nil {
				return err
			}

			now := time.Now().UTC()

			state := NextStreak(account.LastActivityDate, now, account.ConsecutiveDaysActive)
			if !state.NewDay {
				return nil
			}

			account.ConsecutiveDaysActive = state.Days
			today := now.Truncate(24 * time.Hour)
			account.LastActivityDate = &today

			if err := s.ledger.applyTx(ctx, tx, account, enum.ActionDailyActivity, s.points.DailyActivity); err != nil {
				return err
			}

			if StreakBonusDue(state.Days, s.points.StreakLength) {
				if err := s.ledger.applyTx(ctx, tx, account, enum.ActionConsecutiveDays, s.points.StreakBonus); err != nil {
					return err
				}

				s.logger.Info("Awarded streak bonus",
					zap.Uint64("userID", userID),
					zap.Int("streakDays", state.Days))
			}

			if _, err := s.badges.checkAndAwardTx(ctx, tx, account); err != nil {
				return err
			}

			return s.account.Update(ctx, tx, account)
		})
		if err != nil {
			return nil, err
		}

		return account, nil
	})
}
