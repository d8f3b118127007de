// Package forum reads aggregate activity counts from the forum subsystem's
// tables. The forum owns threads, posts, and votes; the engine only ever
// reads aggregates from them, here for recalculation.
package forum

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/volunthub/reputation/internal/database/service"
	"go.uber.org/zap"
)

// Source implements service.ActivitySource against the forum tables.
type Source struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewSource creates a forum activity source.
func NewSource(db *bun.DB, logger *zap.Logger) *Source {
	return &Source{
		db:     db,
		logger: logger.Named("forum_source"),
	}
}

// ActivityCounts returns the source-of-truth aggregates for one user: posts
// and threads they authored, positive votes across their posts, and posts of
// theirs flagged as solutions. A user with no forum rows reports all zeros.
func (s *Source) ActivityCounts(ctx context.Context, userID uint64) (service.ActivityCounts, error) {
	var counts service.ActivityCounts

	err := s.db.NewRaw(`
		SELECT
			(SELECT COUNT(*) FROM posts WHERE user_id = ?0) AS posts,
			(SELECT COUNT(*) FROM threads WHERE user_id = ?0) AS threads,
			(SELECT COUNT(*) FROM votes v
				JOIN posts p ON p.id = v.post_id
				WHERE p.user_id = ?0 AND v.is_upvote) AS votes_received,
			(SELECT COUNT(*) FROM posts WHERE user_id = ?0 AND is_solution) AS solutions_provided
	`, userID).Scan(ctx, &counts.Posts, &counts.Threads, &counts.VotesReceived, &counts.SolutionsProvided)
	if err != nil {
		return service.ActivityCounts{}, fmt.Errorf("failed to read forum activity counts: %w", err)
	}

	return counts, nil
}
