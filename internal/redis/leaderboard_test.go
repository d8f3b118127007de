package redis_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volunthub/reputation/internal/database/types"
	redisCache "github.com/volunthub/reputation/internal/redis"
	"go.uber.org/zap"
)

func setupTest(t *testing.T) (*redisCache.LeaderboardCache, *miniredis.Miniredis, func()) {
	t.Helper()
	// Start miniredis server
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// Create Redis client
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	// Create test logger
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	cache := redisCache.NewLeaderboardCache(client, 100, 60, logger)

	cleanup := func() {
		mr.Close()
		client.Close()
		logger.Sync()
	}

	return cache, mr, cleanup
}

func testLeaderboard() *types.Leaderboard {
	return &types.Leaderboard{
		TopUsers: []*types.LeaderboardEntry{
			{UserID: 1, TotalPoints: 4200, Rank: "Expert", RankLevel: 5, Position: 1},
			{UserID: 2, TotalPoints: 980, Rank: "Regular", RankLevel: 3, Position: 2},
			{UserID: 3, TotalPoints: 15, Rank: "Newcomer", RankLevel: 1, Position: 3},
		},
		TotalUsers: 3,
	}
}

func TestGetMissingSnapshot(t *testing.T) {
	t.Parallel()
	cache, _, cleanup := setupTest(t)
	defer cleanup()

	_, err := cache.Get(t.Context())
	require.ErrorIs(t, err, redisCache.ErrCacheMiss)
}

func TestSetAndGetSnapshot(t *testing.T) {
	t.Parallel()
	cache, _, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()
	want := testLeaderboard()

	err := cache.Set(ctx, want)
	require.NoError(t, err)

	got, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got.TopUsers, 3)
	assert.Equal(t, want.TotalUsers, got.TotalUsers)
	assert.Equal(t, want.TopUsers[0].UserID, got.TopUsers[0].UserID)
	assert.Equal(t, want.TopUsers[0].TotalPoints, got.TopUsers[0].TotalPoints)
	assert.Equal(t, want.TopUsers[0].Rank, got.TopUsers[0].Rank)
	assert.Equal(t, 1, got.TopUsers[0].Position)
}

func TestSnapshotExpires(t *testing.T) {
	t.Parallel()
	cache, mr, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()

	err := cache.Set(ctx, testLeaderboard())
	require.NoError(t, err)

	// Advance miniredis past the configured TTL.
	mr.FastForward(61 * time.Second)

	_, err = cache.Get(ctx)
	require.ErrorIs(t, err, redisCache.ErrCacheMiss)
}

func TestInvalidate(t *testing.T) {
	t.Parallel()
	cache, _, cleanup := setupTest(t)
	defer cleanup()

	ctx := t.Context()

	err := cache.Set(ctx, testLeaderboard())
	require.NoError(t, err)

	cache.Invalidate(ctx)

	_, err = cache.Get(ctx)
	require.ErrorIs(t, err, redisCache.ErrCacheMiss)
}

func TestSnapshotSizeDefaults(t *testing.T) {
	t.Parallel()
	cache, _, cleanup := setupTest(t)
	defer cleanup()

	assert.Equal(t, 100, cache.SnapshotSize())
}
