package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"github.com/volunthub/reputation/internal/database/types"
	"go.uber.org/zap"
)

// leaderboardKey stores the serialized leaderboard snapshot.
const leaderboardKey = "reputation:leaderboard"

// ErrCacheMiss indicates no snapshot is cached; callers fall back to the
// database.
var ErrCacheMiss = errors.New("leaderboard cache miss")

// LeaderboardCache keeps a short-lived leaderboard snapshot in Redis so hot
// leaderboard reads skip Postgres. Snapshots are eventually consistent;
// every point award invalidates the key best-effort.
type LeaderboardCache struct {
	client rueidis.Client
	ttl    time.Duration
	size   int
	logger *zap.Logger
}

// NewLeaderboardCache creates a leaderboard cache with the given snapshot
// size and TTL in seconds.
func NewLeaderboardCache(client rueidis.Client, size, ttlSeconds int, logger *zap.Logger) *LeaderboardCache {
	if size <= 0 {
		size = 100
	}

	if ttlSeconds <= 0 {
		ttlSeconds = 60
	}

	return &LeaderboardCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
		size:   size,
		logger: logger.Named("leaderboard_cache"),
	}
}

// SnapshotSize returns how many rows a cached snapshot holds. Requests for
// more rows than this bypass the cache.
func (c *LeaderboardCache) SnapshotSize() int {
	return c.size
}

// Get returns the cached snapshot, or ErrCacheMiss when absent or expired.
func (c *LeaderboardCache) Get(ctx context.Context) (*types.Leaderboard, error) {
	data, err := c.client.Do(ctx, c.client.B().Get().Key(leaderboardKey).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrCacheMiss
		}

		return nil, fmt.Errorf("failed to read leaderboard cache: %w", err)
	}

	var leaderboard types.Leaderboard
	if err := sonic.Unmarshal(data, &leaderboard); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard snapshot: %w", err)
	}

	return &leaderboard, nil
}

// Set stores a snapshot with the configured TTL.
func (c *LeaderboardCache) Set(ctx context.Context, leaderboard *types.Leaderboard) error {
	data, err := sonic.Marshal(leaderboard)
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard snapshot: %w", err)
	}

	err = c.client.Do(ctx, c.client.B().Set().
		Key(leaderboardKey).
		Value(rueidis.BinaryString(data)).
		Ex(c.ttl).
		Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to write leaderboard cache: %w", err)
	}

	return nil
}

// Invalidate drops the cached snapshot. Failures are logged, not returned;
// the snapshot expires on its own TTL anyway.
func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	err := c.client.Do(ctx, c.client.B().Del().Key(leaderboardKey).Build()).Error()
	if err != nil {
		c.logger.Warn("Failed to invalidate leaderboard cache", zap.Error(err))
	}
}
