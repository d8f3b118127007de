package service

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"github.com/volunthub/reputation/internal/database/dbretry"
	"github.com/volunthub/reputation/internal/database/models"
	"github.com/volunthub/reputation/internal/database/types"
	"github.com/volunthub/reputation/internal/database/types/enum"
	"go.uber.org/zap"
)

// BadgeService evaluates declarative badge criteria against account counters
// and awards unearned badges exactly once.
type BadgeService struct {
	db      *bun.DB
	model   *models.BadgeModel
	account *models.AccountModel
	ledger  *LedgerService
	logger  *zap.Logger
}

// NewBadge creates a new badge service.
func NewBadge(
	db *bun.DB,
	model *models.BadgeModel,
	account *models.AccountModel,
	ledger *LedgerService,
	logger *zap.Logger,
) *BadgeService {
	return &BadgeService{
		db:      db,
		model:   model,
		account: account,
		ledger:  ledger,
		logger:  logger.Named("badge_service"),
	}
}

// CheckAndAward evaluates all active badges against a user's current counters
// and awards any whose criteria are fully met. Already-held badges are never
// re-awarded; running this twice on an unchanged account is a no-op.
func (s *BadgeService) CheckAndAward(ctx context.Context, userID uint64) ([]*types.Badge, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Badge, error) {
		var newBadges []*types.Badge

		err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			account, err := s.ledger.lockAccount(ctx, tx, userID)
			if err != nil {
				return err
			}

			newBadges, err = s.checkAndAwardTx(ctx, tx, account)
			if err != nil {
				return err
			}

			return s.account.Update(ctx, tx, account)
		})
		if err != nil {
			return nil, err
		}

		return newBadges, nil
	})
}

// checkAndAwardTx runs the criteria check inside an existing transaction
// whose account row is already locked. Awarding a badge credits its point
// value through the ledger, which can in turn satisfy point-threshold
// badges, so evaluation repeats until no further badge is earned.
func (s *BadgeService) checkAndAwardTx(
	ctx context.Context, tx bun.Tx, account *types.ReputationAccount,
) ([]*types.Badge, error) {
	badges, err := s.model.Active(ctx, tx)
	if err != nil {
		return nil, err
	}

	held, err := s.model.HeldIDs(ctx, tx, account.UserID)
	if err != nil {
		return nil, err
	}

	var newBadges []*types.Badge

	// One pass per possible award bounds the loop.
	for range len(badges) + 1 {
		awarded := false

		for _, badge := range badges {
			if _, ok := held[badge.ID]; ok {
				continue
			}

			if !criteriaMet(badge, account) {
				continue
			}

			inserted, err := s.model.Award(ctx, tx, &types.UserBadge{
				UserID:   account.UserID,
				BadgeID:  badge.ID,
				EarnedAt: time.Now().UTC(),
				IsPublic: true,
			})
			if err != nil {
				return nil, err
			}

			held[badge.ID] = struct{}{}

			if !inserted {
				// Row already existed; criteria were met on an earlier run.
				continue
			}

			if err := s.ledger.applyTx(ctx, tx, account, enum.ActionBadgeAwarded, badge.PointsValue); err != nil {
				return nil, err
			}

			newBadges = append(newBadges, badge)
			awarded = true

			s.logger.Info("Awarded badge",
				zap.Uint64("userID", account.UserID),
				zap.String("slug", badge.Slug),
				zap.Int64("pointsValue", badge.PointsValue))
		}

		if !awarded {
			break
		}
	}

	return newBadges, nil
}

// criteriaMet reports whether every criterion of a badge holds for the
// account. Badges with no criteria are never awarded automatically.
func criteriaMet(badge *types.Badge, account *types.ReputationAccount) bool {
	if len(badge.Criteria) == 0 {
		return false
	}

	for _, criterion := range badge.Criteria {
		if !criterion.Met(account) {
			return false
		}
	}

	return true
}

// Progress reports per-criterion completion for every active badge the user
// has not yet earned. The percentage is the average of each criterion's
// clamped completion ratio.
func (s *BadgeService) Progress(ctx context.Context, userID uint64) ([]*types.BadgeProgress, error) {
	account, err := s.account.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if account == nil {
		account = &types.ReputationAccount{UserID: userID}
	}

	badges, err := s.model.Active(ctx, s.db)
	if err != nil {
		return nil, err
	}

	held, err := s.model.HeldIDs(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	var progress []*types.BadgeProgress

	for _, badge := range badges {
		if _, ok := held[badge.ID]; ok {
			continue
		}

		progress = append(progress, BadgeProgressFor(badge, account))
	}

	return progress, nil
}

// BadgeProgressFor computes completion toward one badge for an account.
func BadgeProgressFor(badge *types.Badge, account *types.ReputationAccount) *types.BadgeProgress {
	result := &types.BadgeProgress{
		Badge:        badge,
		Requirements: make([]types.CriterionProgress, 0, len(badge.Criteria)),
	}

	var sum float64

	for _, criterion := range badge.Criteria {
		target := criterion.Target
		if criterion.Kind == enum.CriterionBooleanFlag {
			target = 1
		}

		result.Requirements = append(result.Requirements, types.CriterionProgress{
			Criterion:    criterion,
			CurrentValue: account.Counter(criterion.Field),
			TargetValue:  target,
			IsMet:        criterion.Met(account),
		})

		sum += criterion.Progress(account)
	}

	if len(badge.Criteria) > 0 {
		result.ProgressPercentage = sum / float64(len(badge.Criteria)) * 100
	}

	return result
}

// Seed installs the standard badge catalogue, upserting by slug. Safe to run
// repeatedly.
func (s *BadgeService) Seed(ctx context.Context) error {
	return s.model.Seed(ctx, types.DefaultBadges())
}

// SetFeatured toggles the featured display flag on one of the user's badges.
func (s *BadgeService) SetFeatured(ctx context.Context, userID uint64, badgeID int64, featured bool) error {
	return s.model.SetFeatured(ctx, userID, badgeID, featured)
}
