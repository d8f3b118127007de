package models

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/volunthub/reputation/internal/database/types"
	"go.uber.org/zap"
)

// BadgeModel handles database operations for badge definitions and held
// badges.
type BadgeModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewBadge creates a new badge model.
func NewBadge(db *bun.DB, logger *zap.Logger) *BadgeModel {
	return &BadgeModel{
		db:     db,
		logger: logger.Named("db_badge"),
	}
}

// Active retrieves all active badge definitions. Accepts a transaction so
// award evaluation reads definitions on the same snapshot as the rest of its
// unit of work.
func (r *BadgeModel) Active(ctx context.Context, db bun.IDB) ([]*types.Badge, error) {
	var badges []*types.Badge

	err := db.NewSelect().
		Model(&badges).
		Where("is_active").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active badges: %w", err)
	}

	return badges, nil
}

// HeldIDs returns the badge IDs already held by a user.
func (r *BadgeModel) HeldIDs(ctx context.Context, db bun.IDB, userID uint64) (map[int64]struct{}, error) {
	var ids []int64

	err := db.NewSelect().
		Model((*types.UserBadge)(nil)).
		Column("badge_id").
		Where("user_id = ?", userID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get held badge IDs: %w", err)
	}

	held := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		held[id] = struct{}{}
	}

	return held, nil
}

// Award inserts a user badge row within the given transaction. The unique
// (user, badge) key makes the operation idempotent; it reports whether the
// row was actually inserted so callers can skip the point award on replays.
func (r *BadgeModel) Award(ctx context.Context, tx bun.IDB, userBadge *types.UserBadge) (bool, error) {
	if userBadge.EarnedAt.IsZero() {
		userBadge.EarnedAt = time.Now().UTC()
	}

	res, err := tx.NewInsert().
		Model(userBadge).
		On("CONFLICT (user_id, badge_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to award badge: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return false, nil
	}

	// Keep the informational award counter in step.
	_, err = tx.NewUpdate().
		Model((*types.Badge)(nil)).
		Set("awarded_count = awarded_count + 1").
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", userBadge.BadgeID).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to increment awarded count: %w", err)
	}

	return true, nil
}

// UserBadges retrieves a user's badges with their definitions, newest first.
func (r *BadgeModel) UserBadges(ctx context.Context, userID uint64) ([]*types.UserBadge, error) {
	var userBadges []*types.UserBadge

	err := r.db.NewSelect().
		Model(&userBadges).
		Relation("Badge").
		Where("user_badge.user_id = ?", userID).
		Order("user_badge.earned_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user badges: %w", err)
	}

	return userBadges, nil
}

// SumHeldPoints returns the sum of points values over all badges a user
// currently holds. Used by the recalculation service.
func (r *BadgeModel) SumHeldPoints(ctx context.Context, db bun.IDB, userID uint64) (int64, error) {
	var sum int64

	err := db.NewSelect().
		Model((*types.UserBadge)(nil)).
		ColumnExpr("COALESCE(SUM(badge.points_value), 0)").
		Join("JOIN badges AS badge ON badge.id = user_badge.badge_id").
		Where("user_badge.user_id = ?", userID).
		Scan(ctx, &sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum held badge points: %w", err)
	}

	return sum, nil
}

// SetFeatured toggles the featured display flag on a held badge.
func (r *BadgeModel) SetFeatured(ctx context.Context, userID uint64, badgeID int64, featured bool) error {
	res, err := r.db.NewUpdate().
		Model((*types.UserBadge)(nil)).
		Set("is_featured = ?", featured).
		Where("user_id = ?", userID).
		Where("badge_id = ?", badgeID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set featured flag: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("user %d does not hold badge %d", userID, badgeID)
	}

	return nil
}

// Seed upserts badge definitions by slug. Existing definitions are updated in
// place without touching awarded counts or held badges, so the seeder is safe
// to run repeatedly.
func (r *BadgeModel) Seed(ctx context.Context, badges []*types.Badge) error {
	now := time.Now().UTC()
	for _, badge := range badges {
		badge.CreatedAt = now
		badge.UpdatedAt = now
	}

	_, err := r.db.NewInsert().
		Model(&badges).
		On("CONFLICT (slug) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("description = EXCLUDED.description").
		Set("type = EXCLUDED.type").
		Set("rarity = EXCLUDED.rarity").
		Set("points_value = EXCLUDED.points_value").
		Set("criteria = EXCLUDED.criteria").
		Set("is_active = EXCLUDED.is_active").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed badges: %w", err)
	}

	r.logger.Info("Seeded badge catalogue", zap.Int("count", len(badges)))

	return nil
}
