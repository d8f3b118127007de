// Package engine is the boundary the forum layer talks to. It consumes
// discrete domain events (posts, threads, votes, solutions, daily activity)
// and answers the read queries controllers need. Vote polarity and self-vote
// policy are enforced upstream: the engine only ever sees award-eligible
// events.
package engine

import (
	"context"
	"errors"

	"github.com/volunthub/reputation/internal/database"
	"github.com/volunthub/reputation/internal/database/service"
	"github.com/volunthub/reputation/internal/database/types"
	"github.com/volunthub/reputation/internal/database/types/enum"
	"github.com/volunthub/reputation/internal/redis"
	"go.uber.org/zap"
)

// Engine wires the reputation services behind the event and query interface
// consumed by the rest of the platform.
type Engine struct {
	db     database.Client
	source service.ActivitySource
	cache  *redis.LeaderboardCache
	logger *zap.Logger
}

// New creates an engine. The cache may be nil, in which case leaderboard
// reads always hit the database.
func New(
	db database.Client, source service.ActivitySource, cache *redis.LeaderboardCache, logger *zap.Logger,
) *Engine {
	return &Engine{
		db:     db,
		source: source,
		cache:  cache,
		logger: logger.Named("engine"),
	}
}

// ThreadCreated awards points for a newly created thread.
func (e *Engine) ThreadCreated(ctx context.Context, userID uint64) (*service.AwardResult, error) {
	return e.award(ctx, userID, enum.ActionThreadCreated)
}

// PostCreated awards points for a newly created post.
func (e *Engine) PostCreated(ctx context.Context, userID uint64) (*service.AwardResult, error) {
	return e.award(ctx, userID, enum.ActionPostCreated)
}

// VoteReceived awards points to the author of an up-voted post. The caller
// must have already filtered out down-votes and self-votes.
func (e *Engine) VoteReceived(ctx context.Context, authorID uint64) (*service.AwardResult, error) {
	return e.award(ctx, authorID, enum.ActionVoteReceived)
}

// SolutionMarked awards points to the author of a post accepted as solution.
func (e *Engine) SolutionMarked(ctx context.Context, authorID uint64) (*service.AwardResult, error) {
	return e.award(ctx, authorID, enum.ActionSolutionMarked)
}

// DailyActivity registers activity for today, extending or restarting the
// user's streak. Idempotent within a UTC day.
func (e *Engine) DailyActivity(ctx context.Context, userID uint64) (*types.ReputationAccount, error) {
	account, err := e.db.Service().Streak().RecordDailyActivity(ctx, userID)
	if err != nil {
		return nil, err
	}

	e.invalidateLeaderboard(ctx)

	return account, nil
}

func (e *Engine) award(
	ctx context.Context, userID uint64, action enum.Action,
) (*service.AwardResult, error) {
	result, err := e.db.Service().Ledger().AwardPoints(ctx, userID, action)
	if err != nil {
		return nil, err
	}

	e.invalidateLeaderboard(ctx)

	return result, nil
}

func (e *Engine) invalidateLeaderboard(ctx context.Context) {
	if e.cache != nil {
		e.cache.Invalidate(ctx)
	}
}

// GetUserDashboard returns the aggregated reputation view for one user.
func (e *Engine) GetUserDashboard(ctx context.Context, userID uint64) (*types.Dashboard, error) {
	return e.db.Service().Leaderboard().Dashboard(ctx, userID)
}

// defaultLeaderboardLimit substitutes for non-positive limit requests.
const defaultLeaderboardLimit = 10

// normalizeLimit maps degenerate limit requests to the default page size so
// the cache and database paths agree on what they mean.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLeaderboardLimit
	}

	return limit
}

// GetLeaderboard returns the top users by points. Small requests are served
// from the Redis snapshot when fresh; larger ones go straight to Postgres.
func (e *Engine) GetLeaderboard(ctx context.Context, limit int) (*types.Leaderboard, error) {
	limit = normalizeLimit(limit)

	if e.cache == nil || limit > e.cache.SnapshotSize() {
		return e.db.Service().Leaderboard().Leaderboard(ctx, limit)
	}

	cached, err := e.cache.Get(ctx)
	if err == nil {
		return trimLeaderboard(cached, limit), nil
	}

	if !errors.Is(err, redis.ErrCacheMiss) {
		e.logger.Warn("Leaderboard cache read failed", zap.Error(err))
	}

	snapshot, err := e.db.Service().Leaderboard().Leaderboard(ctx, e.cache.SnapshotSize())
	if err != nil {
		return nil, err
	}

	if err := e.cache.Set(ctx, snapshot); err != nil {
		e.logger.Warn("Leaderboard cache write failed", zap.Error(err))
	}

	return trimLeaderboard(snapshot, limit), nil
}

func trimLeaderboard(leaderboard *types.Leaderboard, limit int) *types.Leaderboard {
	if limit >= len(leaderboard.TopUsers) {
		return leaderboard
	}

	return &types.Leaderboard{
		TopUsers:   leaderboard.TopUsers[:limit],
		TotalUsers: leaderboard.TotalUsers,
	}
}

// GetUserBadgeProgress reports completion toward every active badge the user
// has not yet earned.
func (e *Engine) GetUserBadgeProgress(ctx context.Context, userID uint64) ([]*types.BadgeProgress, error) {
	return e.db.Service().Badge().Progress(ctx, userID)
}

// RecalculateUserReputation rebuilds a user's reputation state from forum
// source facts. Repair operation; writes no history.
func (e *Engine) RecalculateUserReputation(ctx context.Context, userID uint64) (*types.ReputationAccount, error) {
	account, err := e.db.Service().Recalculation().Recalculate(ctx, e.source, userID)
	if err != nil {
		return nil, err
	}

	e.invalidateLeaderboard(ctx)

	return account, nil
}

// SetBadgeFeatured toggles the featured display flag on a badge the user
// holds.
func (e *Engine) SetBadgeFeatured(ctx context.Context, userID uint64, badgeID int64, featured bool) error {
	return e.db.Service().Badge().SetFeatured(ctx, userID, badgeID, featured)
}

// SeedDefaultBadges installs the standard badge catalogue. Idempotent.
func (e *Engine) SeedDefaultBadges(ctx context.Context) error {
	return e.db.Service().Badge().Seed(ctx)
}
