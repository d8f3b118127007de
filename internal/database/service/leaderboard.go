package service

import (
	"context"
	"time"

	"github.com/volunthub/reputation/internal/database/models"
	"github.com/volunthub/reputation/internal/database/types"
	"go.uber.org/zap"
)

const (
	// recentHistoryLimit caps dashboard history entries.
	recentHistoryLimit = 10
	// recentBadgesLimit caps dashboard badge rows.
	recentBadgesLimit = 5
)

// LeaderboardService answers read-only leaderboard and dashboard queries.
// Reads are point-in-time snapshots; no locks are taken.
type LeaderboardService struct {
	account *models.AccountModel
	history *models.HistoryModel
	badge   *models.BadgeModel
	ranks   *RankTable
	logger  *zap.Logger
}

// NewLeaderboard creates a new leaderboard service.
func NewLeaderboard(
	account *models.AccountModel,
	history *models.HistoryModel,
	badge *models.BadgeModel,
	ranks *RankTable,
	logger *zap.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		account: account,
		history: history,
		badge:   badge,
		ranks:   ranks,
		logger:  logger.Named("leaderboard_service"),
	}
}

// Leaderboard returns the top users by total points, descending, with ties
// broken by earliest account creation.
func (s *LeaderboardService) Leaderboard(ctx context.Context, limit int) (*types.Leaderboard, error) {
	accounts, err := s.account.Top(ctx, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.account.Count(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]*types.LeaderboardEntry, 0, len(accounts))
	for i, account := range accounts {
		entries = append(entries, &types.LeaderboardEntry{
			UserID:      account.UserID,
			TotalPoints: account.TotalPoints,
			Rank:        account.Rank,
			RankLevel:   account.RankLevel,
			Position:    i + 1,
		})
	}

	return &types.Leaderboard{
		TopUsers:   entries,
		TotalUsers: total,
	}, nil
}

// Dashboard aggregates a user's reputation view: rank progress, badges,
// recent history, and trailing point gains. Gains are computed from history
// entry timestamps, never from account mutation times.
func (s *LeaderboardService) Dashboard(ctx context.Context, userID uint64) (*types.Dashboard, error) {
	account, err := s.account.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if account == nil {
		rank, rankLevel := s.ranks.RankFor(0)
		account = &types.ReputationAccount{
			UserID:    userID,
			Rank:      rank,
			RankLevel: rankLevel,
		}
	}

	userBadges, err := s.badge.UserBadges(ctx, userID)
	if err != nil {
		return nil, err
	}

	recentBadges := userBadges
	if len(recentBadges) > recentBadgesLimit {
		recentBadges = recentBadges[:recentBadgesLimit]
	}

	var featured []*types.UserBadge

	for _, userBadge := range userBadges {
		if userBadge.IsFeatured {
			featured = append(featured, userBadge)
		}
	}

	recentHistory, err := s.history.Recent(ctx, userID, recentHistoryLimit)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	weekly, err := s.history.SumSince(ctx, userID, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	monthly, err := s.history.SumSince(ctx, userID, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	return &types.Dashboard{
		Account:        account,
		RankProgress:   s.ranks.ProgressFor(account.TotalPoints),
		RecentBadges:   recentBadges,
		FeaturedBadges: featured,
		RecentHistory:  recentHistory,
		Gains: types.PointGains{
			Weekly:  weekly,
			Monthly: monthly,
		},
	}, nil
}
