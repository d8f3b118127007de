package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volunthub/reputation/internal/database/service"
	"github.com/volunthub/reputation/internal/database/types"
	"github.com/volunthub/reputation/internal/database/types/enum"
)

func TestBadgeProgressForNumericCriterion(t *testing.T) {
	t.Parallel()

	badge := &types.Badge{
		ID:   1,
		Slug: "conversationalist",
		Criteria: []types.Criterion{
			{Kind: enum.CriterionNumericAtLeast, Field: enum.FieldPostsCount, Target: 5},
		},
	}

	tests := []struct {
		name        string
		postsCount  int64
		wantPercent float64
		wantMet     bool
	}{
		{
			name:        "no progress",
			postsCount:  0,
			wantPercent: 0,
			wantMet:     false,
		},
		{
			name:        "partial progress",
			postsCount:  3,
			wantPercent: 60,
			wantMet:     false,
		},
		{
			name:        "exactly at target",
			postsCount:  5,
			wantPercent: 100,
			wantMet:     true,
		},
		{
			name:        "beyond target is clamped",
			postsCount:  50,
			wantPercent: 100,
			wantMet:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			account := &types.ReputationAccount{UserID: 1, PostsCount: tt.postsCount}

			progress := service.BadgeProgressFor(badge, account)
			require.Len(t, progress.Requirements, 1)

			if tt.wantPercent == 0 {
				assert.Zero(t, progress.ProgressPercentage)
			} else {
				assert.InEpsilon(t, tt.wantPercent, progress.ProgressPercentage, 0.001)
			}

			req := progress.Requirements[0]
			assert.Equal(t, tt.postsCount, req.CurrentValue)
			assert.Equal(t, int64(5), req.TargetValue)
			assert.Equal(t, tt.wantMet, req.IsMet)
		})
	}
}

func TestBadgeProgressForBooleanFlag(t *testing.T) {
	t.Parallel()

	badge := &types.Badge{
		ID:   2,
		Slug: "first-solution",
		Criteria: []types.Criterion{
			{Kind: enum.CriterionBooleanFlag, Field: enum.FlagFirstSolution},
		},
	}

	account := &types.ReputationAccount{UserID: 1}
	progress := service.BadgeProgressFor(badge, account)
	require.Len(t, progress.Requirements, 1)
	assert.Zero(t, progress.ProgressPercentage)
	assert.Equal(t, int64(1), progress.Requirements[0].TargetValue)
	assert.False(t, progress.Requirements[0].IsMet)

	account.SolutionsProvided = 3
	progress = service.BadgeProgressFor(badge, account)
	assert.InEpsilon(t, 100.0, progress.ProgressPercentage, 0.001)
	assert.True(t, progress.Requirements[0].IsMet)
}

func TestBadgeProgressForMultipleCriteria(t *testing.T) {
	t.Parallel()

	badge := &types.Badge{
		ID:   3,
		Slug: "all-rounder",
		Criteria: []types.Criterion{
			{Kind: enum.CriterionNumericAtLeast, Field: enum.FieldPostsCount, Target: 10},
			{Kind: enum.CriterionNumericAtLeast, Field: enum.FieldVotesReceived, Target: 4},
		},
	}

	// 5/10 posts and 4/4 votes averages to 75%.
	account := &types.ReputationAccount{UserID: 1, PostsCount: 5, VotesReceived: 4}

	progress := service.BadgeProgressFor(badge, account)
	require.Len(t, progress.Requirements, 2)
	assert.InEpsilon(t, 75.0, progress.ProgressPercentage, 0.001)
	assert.False(t, progress.Requirements[0].IsMet)
	assert.True(t, progress.Requirements[1].IsMet)
}

func TestCriterionMet(t *testing.T) {
	t.Parallel()

	account := &types.ReputationAccount{
		UserID:                1,
		TotalPoints:           1200,
		PostsCount:            30,
		ThreadsCount:          2,
		VotesReceived:         8,
		SolutionsProvided:     0,
		ConsecutiveDaysActive: 7,
	}

	tests := []struct {
		name      string
		criterion types.Criterion
		want      bool
	}{
		{
			name:      "numeric target reached",
			criterion: types.Criterion{Kind: enum.CriterionNumericAtLeast, Field: enum.FieldPostsCount, Target: 25},
			want:      true,
		},
		{
			name:      "numeric target not reached",
			criterion: types.Criterion{Kind: enum.CriterionNumericAtLeast, Field: enum.FieldVotesReceived, Target: 10},
			want:      false,
		},
		{
			name:      "total points threshold",
			criterion: types.Criterion{Kind: enum.CriterionNumericAtLeast, Field: enum.FieldTotalPoints, Target: 1000},
			want:      true,
		},
		{
			name:      "consecutive days threshold",
			criterion: types.Criterion{Kind: enum.CriterionNumericAtLeast, Field: enum.FieldConsecutiveDays, Target: 7},
			want:      true,
		},
		{
			name:      "flag set",
			criterion: types.Criterion{Kind: enum.CriterionBooleanFlag, Field: enum.FlagFirstThread},
			want:      true,
		},
		{
			name:      "flag not set",
			criterion: types.Criterion{Kind: enum.CriterionBooleanFlag, Field: enum.FlagFirstSolution},
			want:      false,
		},
		{
			name:      "unknown kind never matches",
			criterion: types.Criterion{Kind: enum.CriterionKind("percentile"), Field: enum.FieldPostsCount, Target: 1},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.criterion.Met(account))
		})
	}
}

func TestDefaultBadgesCatalogue(t *testing.T) {
	t.Parallel()

	badges := types.DefaultBadges()
	require.NotEmpty(t, badges)

	slugs := make(map[string]struct{}, len(badges))

	for _, badge := range badges {
		assert.NotEmpty(t, badge.Slug)
		assert.NotEmpty(t, badge.Name)
		assert.True(t, badge.IsActive)
		assert.NotEmpty(t, badge.Criteria, "badge %q has no criteria and could never be earned", badge.Slug)

		_, dup := slugs[badge.Slug]
		assert.False(t, dup, "duplicate slug %q", badge.Slug)
		slugs[badge.Slug] = struct{}{}
	}
}
