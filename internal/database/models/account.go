package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/volunthub/reputation/internal/database/types"
	"go.uber.org/zap"
)

// AccountModel handles database operations for reputation accounts.
type AccountModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewAccount creates a new account model.
func NewAccount(db *bun.DB, logger *zap.Logger) *AccountModel {
	return &AccountModel{
		db:     db,
		logger: logger.Named("db_account"),
	}
}

// Get retrieves an account by user ID. Returns nil when the user has no
// account yet.
func (r *AccountModel) Get(ctx context.Context, userID uint64) (*types.ReputationAccount, error) {
	account := new(types.ReputationAccount)

	err := r.db.NewSelect().
		Model(account).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// GetForUpdate locks and returns the account row for a user within the given
// transaction, creating a zeroed account first if none exists. The row lock
// serializes concurrent awards for the same user.
func (r *AccountModel) GetForUpdate(
	ctx context.Context, tx bun.IDB, userID uint64, rank string, rankLevel int,
) (*types.ReputationAccount, error) {
	now := time.Now().UTC()

	fresh := &types.ReputationAccount{
		UserID:    userID,
		Rank:      rank,
		RankLevel: rankLevel,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := tx.NewInsert().
		Model(fresh).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	account := new(types.ReputationAccount)

	err = tx.NewSelect().
		Model(account).
		Where("user_id = ?", userID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}

	return account, nil
}

// Update persists the full account row within the given transaction.
func (r *AccountModel) Update(ctx context.Context, tx bun.IDB, account *types.ReputationAccount) error {
	account.UpdatedAt = time.Now().UTC()

	_, err := tx.NewUpdate().
		Model(account).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	return nil
}

// Top retrieves the highest-point accounts ordered descending, ties broken by
// earliest account creation.
func (r *AccountModel) Top(ctx context.Context, limit int) ([]*types.ReputationAccount, error) {
	var accounts []*types.ReputationAccount

	err := r.db.NewSelect().
		Model(&accounts).
		Order("total_points DESC").
		Order("created_at ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get top accounts: %w", err)
	}

	return accounts, nil
}

// Count returns the total number of reputation accounts.
func (r *AccountModel) Count(ctx context.Context) (int64, error) {
	count, err := r.db.NewSelect().
		Model((*types.ReputationAccount)(nil)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	return int64(count), nil
}

// UserIDs returns all account owner IDs, paginated by cursor for the
// recalculation sweep. Pass 0 as afterID to start from the beginning.
func (r *AccountModel) UserIDs(ctx context.Context, afterID uint64, limit int) ([]uint64, error) {
	var ids []uint64

	err := r.db.NewSelect().
		Model((*types.ReputationAccount)(nil)).
		Column("user_id").
		Where("user_id > ?", afterID).
		Order("user_id ASC").
		Limit(limit).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list account IDs: %w", err)
	}

	return ids, nil
}

// ResetStaleStreaks zeroes the consecutive-day counter for accounts whose
// last activity is before the cutoff date. Returns the number of accounts
// reset. History is untouched; streak resets are not point events.
func (r *AccountModel) ResetStaleStreaks(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.NewUpdate().
		Model((*types.ReputationAccount)(nil)).
		Set("consecutive_days_active = 0").
		Set("updated_at = ?", time.Now().UTC()).
		Where("consecutive_days_active > 0").
		Where("last_activity_date < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to reset stale streaks: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	r.logger.Debug("Reset stale streaks", zap.Int64("affected", affected))

	return affected, nil
}
