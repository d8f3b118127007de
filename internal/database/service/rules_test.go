package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volunthub/reputation/internal/database/service"
	"github.com/volunthub/reputation/internal/database/types"
	"github.com/volunthub/reputation/internal/database/types/enum"
	"github.com/volunthub/reputation/internal/setup/config"
)

func TestResolveDelta(t *testing.T) {
	t.Parallel()

	points := config.DefaultPoints()

	tests := []struct {
		name    string
		action  enum.Action
		want    int64
		wantErr error
	}{
		{
			name:   "post created",
			action: enum.ActionPostCreated,
			want:   5,
		},
		{
			name:   "thread created",
			action: enum.ActionThreadCreated,
			want:   10,
		},
		{
			name:   "vote received",
			action: enum.ActionVoteReceived,
			want:   2,
		},
		{
			name:   "solution marked",
			action: enum.ActionSolutionMarked,
			want:   25,
		},
		{
			name:   "daily activity",
			action: enum.ActionDailyActivity,
			want:   1,
		},
		{
			name:   "streak bonus",
			action: enum.ActionConsecutiveDays,
			want:   5,
		},
		{
			name:    "badge award has no rule table default",
			action:  enum.ActionBadgeAwarded,
			wantErr: service.ErrInvalidAction,
		},
		{
			name:    "unknown action",
			action:  enum.Action("account_deleted"),
			wantErr: service.ErrInvalidAction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := service.ResolveDelta(&points, tt.action)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyAward(t *testing.T) {
	t.Parallel()

	ranks := service.NewRankTable(config.DefaultRanks())
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		action         enum.Action
		delta          int64
		wantPost       int64
		wantVote       int64
		wantSolution   int64
		wantBadge      int64
		wantPostsCount int64
	}{
		{
			name:           "post credits the post bucket and counter",
			action:         enum.ActionPostCreated,
			delta:          5,
			wantPost:       5,
			wantPostsCount: 1,
		},
		{
			name:     "thread credits the post bucket",
			action:   enum.ActionThreadCreated,
			delta:    10,
			wantPost: 10,
		},
		{
			name:     "vote credits the vote bucket",
			action:   enum.ActionVoteReceived,
			delta:    2,
			wantVote: 2,
		},
		{
			name:         "solution credits the solution bucket",
			action:       enum.ActionSolutionMarked,
			delta:        25,
			wantSolution: 25,
		},
		{
			name:      "badge award credits the badge bucket",
			action:    enum.ActionBadgeAwarded,
			delta:     50,
			wantBadge: 50,
		},
		{
			name:      "daily activity credits the badge bucket",
			action:    enum.ActionDailyActivity,
			delta:     1,
			wantBadge: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			account := &types.ReputationAccount{UserID: 42}

			entry, err := service.ApplyAward(account, tt.action, tt.delta, ranks, now)
			require.NoError(t, err)

			assert.Equal(t, tt.delta, account.TotalPoints)
			assert.Equal(t, tt.wantPost, account.PostPoints)
			assert.Equal(t, tt.wantVote, account.VotePoints)
			assert.Equal(t, tt.wantSolution, account.SolutionPoints)
			assert.Equal(t, tt.wantBadge, account.BadgePoints)
			assert.Equal(t, tt.wantPostsCount, account.PostsCount)

			require.NotNil(t, entry)
			assert.Equal(t, uint64(42), entry.UserID)
			assert.Equal(t, tt.action, entry.Action)
			assert.Equal(t, tt.delta, entry.PointsChange)
			assert.Zero(t, entry.PointsBefore)
			assert.Equal(t, tt.delta, entry.PointsAfter)
			assert.Equal(t, now, entry.CreatedAt)
		})
	}
}

func TestApplyAwardRejectsUnknownAction(t *testing.T) {
	t.Parallel()

	ranks := service.NewRankTable(config.DefaultRanks())
	account := &types.ReputationAccount{UserID: 1}

	_, err := service.ApplyAward(account, enum.Action("bogus"), 5, ranks, time.Now())
	require.ErrorIs(t, err, service.ErrInvalidAction)
	assert.Zero(t, account.TotalPoints)
}

func TestApplyAwardHistoryChain(t *testing.T) {
	t.Parallel()

	points := config.DefaultPoints()
	ranks := service.NewRankTable(config.DefaultRanks())
	account := &types.ReputationAccount{UserID: 7}

	actions := []enum.Action{
		enum.ActionThreadCreated,
		enum.ActionPostCreated,
		enum.ActionVoteReceived,
		enum.ActionSolutionMarked,
		enum.ActionPostCreated,
	}

	var entries []*types.ReputationHistoryEntry

	for _, action := range actions {
		delta, err := service.ResolveDelta(&points, action)
		require.NoError(t, err)

		entry, err := service.ApplyAward(account, action, delta, ranks, time.Now())
		require.NoError(t, err)

		entries = append(entries, entry)
	}

	// Each entry's before total must equal the previous entry's after total.
	for i := 1; i < len(entries); i++ {
		assert.Equal(t, entries[i-1].PointsAfter, entries[i].PointsBefore)
	}

	assert.Equal(t, account.TotalPoints, entries[len(entries)-1].PointsAfter)
	assert.Equal(t, int64(10+5+2+25+5), account.TotalPoints)
}

func TestApplyAwardBucketSumInvariant(t *testing.T) {
	t.Parallel()

	points := config.DefaultPoints()
	ranks := service.NewRankTable(config.DefaultRanks())
	account := &types.ReputationAccount{UserID: 9}

	actions := []enum.Action{
		enum.ActionPostCreated,
		enum.ActionThreadCreated,
		enum.ActionVoteReceived,
		enum.ActionSolutionMarked,
		enum.ActionDailyActivity,
		enum.ActionConsecutiveDays,
		enum.ActionVoteReceived,
		enum.ActionPostCreated,
	}

	for _, action := range actions {
		delta, err := service.ResolveDelta(&points, action)
		require.NoError(t, err)

		_, err = service.ApplyAward(account, action, delta, ranks, time.Now())
		require.NoError(t, err)

		sum := account.PostPoints + account.VotePoints + account.SolutionPoints + account.BadgePoints
		assert.Equal(t, account.TotalPoints, sum)
	}
}

func TestApplyAwardRankPromotion(t *testing.T) {
	t.Parallel()

	points := config.DefaultPoints()
	ranks := service.NewRankTable(config.DefaultRanks())
	account := &types.ReputationAccount{UserID: 3, TotalPoints: 95, SolutionPoints: 95}
	account.Rank, account.RankLevel = ranks.RankFor(account.TotalPoints)
	require.Equal(t, "Newcomer", account.Rank)

	_, err := service.ApplyAward(account, enum.ActionSolutionMarked, points.Solution, ranks, time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(120), account.TotalPoints)
	assert.Equal(t, "Contributor", account.Rank)
	assert.Equal(t, 2, account.RankLevel)
}
