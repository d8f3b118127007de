package enum_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volunthub/reputation/internal/database/types/enum"
)

func TestActionCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		action enum.Action
		want   enum.PointCategory
	}{
		{enum.ActionThreadCreated, enum.CategoryPost},
		{enum.ActionPostCreated, enum.CategoryPost},
		{enum.ActionVoteReceived, enum.CategoryVote},
		{enum.ActionSolutionMarked, enum.CategorySolution},
		{enum.ActionBadgeAwarded, enum.CategoryBadge},
		{enum.ActionDailyActivity, enum.CategoryBadge},
		{enum.ActionConsecutiveDays, enum.CategoryBadge},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			t.Parallel()
			assert.True(t, tt.action.Valid())
			assert.Equal(t, tt.want, tt.action.Category())
		})
	}
}

func TestParseAction(t *testing.T) {
	t.Parallel()

	action, err := enum.ParseAction("post_created")
	require.NoError(t, err)
	assert.Equal(t, enum.ActionPostCreated, action)

	_, err = enum.ParseAction("post_deleted")
	require.Error(t, err)

	_, err = enum.ParseAction("")
	require.Error(t, err)
}
