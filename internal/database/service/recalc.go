package service

import (
	"context"

	"github.com/sourcegraph/conc/pool"
	"github.com/uptrace/bun"
	"github.com/volunthub/reputation/internal/database/dbretry"
	"github.com/volunthub/reputation/internal/database/models"
	"github.com/volunthub/reputation/internal/database/types"
	"github.com/volunthub/reputation/internal/setup/config"
	"go.uber.org/zap"
)

// ActivityCounts are the source-of-truth aggregates owned by the forum
// subsystem: how much a user actually posted, was up-voted, and solved.
type ActivityCounts struct {
	Posts             int64
	Threads           int64
	VotesReceived     int64
	SolutionsProvided int64
}

// ActivitySource exposes forum aggregates for recalculation. The forum layer
// implements this; users with no activity report all-zero counts.
type ActivitySource interface {
	ActivityCounts(ctx context.Context, userID uint64) (ActivityCounts, error)
}

// RebuildCounters overwrites an account's counters and points buckets from
// source counts, reusing the exact weights the incremental ledger applies so
// the two paths cannot drift. Streak fields are left untouched; daily and
// streak bonus points are not derivable from forum facts and are dropped by
// a rebuild.
func RebuildCounters(
	account *types.ReputationAccount,
	counts ActivityCounts,
	heldBadgePoints int64,
	points *config.Points,
	ranks *RankTable,
) {
	account.PostsCount = counts.Posts
	account.ThreadsCount = counts.Threads
	account.VotesReceived = counts.VotesReceived
	account.SolutionsProvided = counts.SolutionsProvided

	account.PostPoints = counts.Posts*points.Post + counts.Threads*points.Thread
	account.VotePoints = counts.VotesReceived * points.Vote
	account.SolutionPoints = counts.SolutionsProvided * points.Solution
	account.BadgePoints = heldBadgePoints

	account.TotalPoints = account.PostPoints + account.VotePoints +
		account.SolutionPoints + account.BadgePoints

	account.Rank, account.RankLevel = ranks.RankFor(account.TotalPoints)
}

// RecalculationService rebuilds derived reputation state from source facts.
// It is a repair operation, not an event: it never writes history entries.
type RecalculationService struct {
	db      *bun.DB
	account *models.AccountModel
	badge   *models.BadgeModel
	points  *config.Points
	ranks   *RankTable
	logger  *zap.Logger
}

// NewRecalculation creates a new recalculation service.
func NewRecalculation(
	db *bun.DB,
	account *models.AccountModel,
	badge *models.BadgeModel,
	points *config.Points,
	ranks *RankTable,
	logger *zap.Logger,
) *RecalculationService {
	return &RecalculationService{
		db:      db,
		account: account,
		badge:   badge,
		points:  points,
		ranks:   ranks,
		logger:  logger.Named("recalc_service"),
	}
}

// Recalculate rebuilds one user's account from forum counts and held badges.
// A user with no underlying activity ends up with an all-zero account at the
// lowest rank.
func (s *RecalculationService) Recalculate(
	ctx context.Context, source ActivitySource, userID uint64,
) (*types.ReputationAccount, error) {
	counts, err := source.ActivityCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ReputationAccount, error) {
		var account *types.ReputationAccount

		err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			rank, rankLevel := s.ranks.RankFor(0)

			var err error

			account, err = s.account.GetForUpdate(ctx, tx, userID, rank, rankLevel)
			if err != nil {
				return err
			}

			heldBadgePoints, err := s.badge.SumHeldPoints(ctx, tx, userID)
			if err != nil {
				return err
			}

			RebuildCounters(account, counts, heldBadgePoints, s.points, s.ranks)

			return s.account.Update(ctx, tx, account)
		})
		if err != nil {
			return nil, err
		}

		s.logger.Info("Recalculated reputation",
			zap.Uint64("userID", userID),
			zap.Int64("totalPoints", account.TotalPoints),
			zap.String("rank", account.Rank))

		return account, nil
	})
}

// RecalculateAll repairs every account, walking the user ID space in batches
// and recalculating a bounded number of users concurrently. Accounts belong
// to different users, so the per-user transactions are independent.
func (s *RecalculationService) RecalculateAll(
	ctx context.Context, source ActivitySource, batchSize, concurrency int,
) (int64, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	if concurrency <= 0 {
		concurrency = 4
	}

	var (
		processed int64
		afterID   uint64
	)

	for {
		ids, err := s.account.UserIDs(ctx, afterID, batchSize)
		if err != nil {
			return processed, err
		}

		if len(ids) == 0 {
			return processed, nil
		}

		p := pool.New().WithContext(ctx).WithMaxGoroutines(concurrency)

		for _, userID := range ids {
			p.Go(func(ctx context.Context) error {
				_, err := s.Recalculate(ctx, source, userID)
				return err
			})
		}

		if err := p.Wait(); err != nil {
			return processed, err
		}

		processed += int64(len(ids))
		afterID = ids[len(ids)-1]

		s.logger.Info("Recalculation sweep progress", zap.Int64("processed", processed))
	}
}
