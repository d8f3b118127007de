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

func TestNextStreak(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, 8, 15, 14, 30, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	threeDaysAgo := today.AddDate(0, 0, -3)

	tests := []struct {
		name     string
		last     *time.Time
		current  int
		wantDays int
		wantNew  bool
	}{
		{
			name:     "first ever activity",
			last:     nil,
			current:  0,
			wantDays: 1,
			wantNew:  true,
		},
		{
			name:     "already active today",
			last:     &today,
			current:  4,
			wantDays: 4,
			wantNew:  false,
		},
		{
			name:     "consecutive day extends streak",
			last:     &yesterday,
			current:  4,
			wantDays: 5,
			wantNew:  true,
		},
		{
			name:     "gap resets streak",
			last:     &threeDaysAgo,
			current:  12,
			wantDays: 1,
			wantNew:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			state := service.NextStreak(tt.last, today, tt.current)
			assert.Equal(t, tt.wantDays, state.Days)
			assert.Equal(t, tt.wantNew, state.NewDay)
		})
	}
}

func TestNextStreakComparesCalendarDays(t *testing.T) {
	t.Parallel()

	// Activity late last night followed by activity early this morning is
	// still a consecutive pair even though less than a day elapsed.
	lateLastNight := time.Date(2025, 8, 14, 23, 55, 0, 0, time.UTC)
	earlyToday := time.Date(2025, 8, 15, 0, 10, 0, 0, time.UTC)

	state := service.NextStreak(&lateLastNight, earlyToday, 2)
	assert.Equal(t, 3, state.Days)
	assert.True(t, state.NewDay)

	// Two activities within the same calendar day never extend the streak.
	morning := time.Date(2025, 8, 15, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 8, 15, 22, 0, 0, 0, time.UTC)

	state = service.NextStreak(&morning, evening, 3)
	assert.Equal(t, 3, state.Days)
	assert.False(t, state.NewDay)
}

func TestStreakBonusDue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		days   int
		length int
		want   bool
	}{
		{
			name:   "day before the streak length",
			days:   6,
			length: 7,
			want:   false,
		},
		{
			name:   "seventh consecutive day",
			days:   7,
			length: 7,
			want:   true,
		},
		{
			name:   "day after the streak length",
			days:   8,
			length: 7,
			want:   false,
		},
		{
			name:   "second full streak",
			days:   14,
			length: 7,
			want:   true,
		},
		{
			name:   "zero days never earns a bonus",
			days:   0,
			length: 7,
			want:   false,
		},
		{
			name:   "zero length disables bonuses",
			days:   7,
			length: 0,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, service.StreakBonusDue(tt.days, tt.length))
		})
	}
}

// A seventh consecutive day produces two distinct history entries: the daily
// point and the separate streak bonus, with chained before/after totals.
func TestSeventhDayAwardsDistinctBonusEntry(t *testing.T) {
	t.Parallel()

	points := config.DefaultPoints()
	ranks := service.NewRankTable(config.DefaultRanks())
	account := &types.ReputationAccount{UserID: 4, ConsecutiveDaysActive: 6}

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	state := service.NextStreak(&yesterday, time.Now().UTC(), account.ConsecutiveDaysActive)
	require.True(t, state.NewDay)
	require.Equal(t, 7, state.Days)
	account.ConsecutiveDaysActive = state.Days

	daily, err := service.ApplyAward(account, enum.ActionDailyActivity, points.DailyActivity, ranks, time.Now())
	require.NoError(t, err)

	require.True(t, service.StreakBonusDue(state.Days, points.StreakLength))

	bonus, err := service.ApplyAward(account, enum.ActionConsecutiveDays, points.StreakBonus, ranks, time.Now())
	require.NoError(t, err)

	assert.Equal(t, enum.ActionDailyActivity, daily.Action)
	assert.Equal(t, enum.ActionConsecutiveDays, bonus.Action)
	assert.Equal(t, int64(1), daily.PointsChange)
	assert.Equal(t, int64(5), bonus.PointsChange)
	assert.Equal(t, daily.PointsAfter, bonus.PointsBefore)
	assert.Equal(t, int64(6), account.TotalPoints)
	assert.Equal(t, int64(6), account.BadgePoints)
}
