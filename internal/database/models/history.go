package models

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/volunthub/reputation/internal/database/types"
	"go.uber.org/zap"
)

// HistoryModel handles database operations for reputation history entries.
// Entries are append-only; there are deliberately no update or delete
// operations on this model.
type HistoryModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewHistory creates a new history model.
func NewHistory(db *bun.DB, logger *zap.Logger) *HistoryModel {
	return &HistoryModel{
		db:     db,
		logger: logger.Named("db_history"),
	}
}

// Append writes one history entry within the given transaction.
func (r *HistoryModel) Append(ctx context.Context, tx bun.IDB, entry *types.ReputationHistoryEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := tx.NewInsert().
		Model(entry).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	return nil
}

// Recent retrieves the most recent history entries for a user, newest first.
func (r *HistoryModel) Recent(
	ctx context.Context, userID uint64, limit int,
) ([]*types.ReputationHistoryEntry, error) {
	var entries []*types.ReputationHistoryEntry

	err := r.db.NewSelect().
		Model(&entries).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent history: %w", err)
	}

	return entries, nil
}

// SumSince returns the net point change for a user across entries created at
// or after the given time.
func (r *HistoryModel) SumSince(ctx context.Context, userID uint64, since time.Time) (int64, error) {
	var sum int64

	err := r.db.NewSelect().
		Model((*types.ReputationHistoryEntry)(nil)).
		ColumnExpr("COALESCE(SUM(points_change), 0)").
		Where("user_id = ?", userID).
		Where("created_at >= ?", since).
		Scan(ctx, &sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum history: %w", err)
	}

	return sum, nil
}

// ReplayTotal returns the total points reached by replaying a user's full
// history from zero. Used to audit account counters against the ledger.
func (r *HistoryModel) ReplayTotal(ctx context.Context, userID uint64) (int64, error) {
	return r.SumSince(ctx, userID, time.Time{})
}
