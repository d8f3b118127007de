package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/volunthub/reputation/internal/database/types"
	"github.com/volunthub/reputation/internal/database/types/enum"
	"github.com/volunthub/reputation/internal/setup/config"
)

// ErrInvalidAction is returned when the ledger receives an unrecognized
// action kind. Unknown kinds fail fast instead of silently applying a zero
// delta.
var ErrInvalidAction = errors.New("invalid action kind")

// ResolveDelta returns the base point delta for an action from the point
// economy. Badge awards carry an explicit per-badge delta and have no rule
// table default.
func ResolveDelta(points *config.Points, action enum.Action) (int64, error) {
	switch action {
	case enum.ActionPostCreated:
		return points.Post, nil
	case enum.ActionThreadCreated:
		return points.Thread, nil
	case enum.ActionVoteReceived:
		return points.Vote, nil
	case enum.ActionSolutionMarked:
		return points.Solution, nil
	case enum.ActionDailyActivity:
		return points.DailyActivity, nil
	case enum.ActionConsecutiveDays:
		return points.StreakBonus, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
}

// ApplyAward mutates an account in place for one point award and returns the
// matching history entry. It credits the action's points bucket, bumps the
// corresponding activity counter, and recomputes the rank. The caller is
// responsible for persisting both rows atomically.
func ApplyAward(
	account *types.ReputationAccount, action enum.Action, delta int64, ranks *RankTable, now time.Time,
) (*types.ReputationHistoryEntry, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	entry := &types.ReputationHistoryEntry{
		UserID:       account.UserID,
		Action:       action,
		PointsChange: delta,
		PointsBefore: account.TotalPoints,
		PointsAfter:  account.TotalPoints + delta,
		CreatedAt:    now,
	}

	account.TotalPoints += delta

	switch action.Category() {
	case enum.CategoryPost:
		account.PostPoints += delta
	case enum.CategoryVote:
		account.VotePoints += delta
	case enum.CategorySolution:
		account.SolutionPoints += delta
	case enum.CategoryBadge:
		account.BadgePoints += delta
	}

	switch action {
	case enum.ActionPostCreated:
		account.PostsCount++
	case enum.ActionThreadCreated:
		account.ThreadsCount++
	case enum.ActionVoteReceived:
		account.VotesReceived++
	case enum.ActionSolutionMarked:
		account.SolutionsProvided++
	}

	account.Rank, account.RankLevel = ranks.RankFor(account.TotalPoints)

	return entry, nil
}
