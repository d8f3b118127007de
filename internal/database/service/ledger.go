package service

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"github.com/volunthub/reputation/internal/database/dbretry"
	"github.com/volunthub/reputation/internal/database/models"
	"github.com/volunthub/reputation/internal/database/types"
	"github.com/volunthub/reputation/internal/database/types/enum"
	"github.com/volunthub/reputation/internal/setup/config"
	"go.uber.org/zap"
)

// AwardResult is the outcome of one processed event: the account after all
// deltas, plus any badges newly earned as a side effect.
type AwardResult struct {
	Account   *types.ReputationAccount
	NewBadges []*types.Badge
}

// LedgerService owns atomic point-delta application and history logging.
// All counter mutations flow through it so the audit trail stays complete.
type LedgerService struct {
	db      *bun.DB
	account *models.AccountModel
	history *models.HistoryModel
	points  *config.Points
	ranks   *RankTable
	badges  *BadgeService
	logger  *zap.Logger
}

// NewLedger creates a new ledger service.
func NewLedger(
	db *bun.DB,
	account *models.AccountModel,
	history *models.HistoryModel,
	points *config.Points,
	ranks *RankTable,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		db:      db,
		account: account,
		history: history,
		points:  points,
		ranks:   ranks,
		logger:  logger.Named("ledger_service"),
	}
}

// AttachEvaluator wires the badge evaluator the ledger re-checks after every
// award. Ledger and evaluator reference each other, so the link is set after
// both are constructed.
func (s *LedgerService) AttachEvaluator(badges *BadgeService) {
	s.badges = badges
}

// AwardPoints resolves the base delta for an action, applies it to the user's
// account, appends a history entry, and re-checks badge criteria. The whole
// chain runs in one transaction; concurrent awards for the same user
// serialize on the account row lock. Contention that outlives the bounded
// retries surfaces as dbretry.ErrContention.
func (s *LedgerService) AwardPoints(
	ctx context.Context, userID uint64, action enum.Action,
) (*AwardResult, error) {
	delta, err := ResolveDelta(s.points, action)
	if err != nil {
		return nil, err
	}

	return dbretry.Operation(ctx, func(ctx context.Context) (*AwardResult, error) {
		result := new(AwardResult)

		err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			account, err := s.lockAccount(ctx, tx, userID)
			if err != nil {
				return err
			}

			if err := s.applyTx(ctx, tx, account, action, delta); err != nil {
				return err
			}

			newBadges, err := s.badges.checkAndAwardTx(ctx, tx, account)
			if err != nil {
				return err
			}

			if err := s.account.Update(ctx, tx, account); err != nil {
				return err
			}

			result.Account = account
			result.NewBadges = newBadges

			return nil
		})
		if err != nil {
			return nil, err
		}

		return result, nil
	})
}

// lockAccount locks the user's account row for the duration of the
// transaction, creating the account on first use.
func (s *LedgerService) lockAccount(
	ctx context.Context, tx bun.Tx, userID uint64,
) (*types.ReputationAccount, error) {
	rank, rankLevel := s.ranks.RankFor(0)

	return s.account.GetForUpdate(ctx, tx, userID, rank, rankLevel)
}

// applyTx applies one delta to an already-locked account and appends the
// matching history entry. The account row itself is written once by the
// caller after all deltas of the transaction are applied.
func (s *LedgerService) applyTx(
	ctx context.Context, tx bun.Tx, account *types.ReputationAccount, action enum.Action, delta int64,
) error {
	entry, err := ApplyAward(account, action, delta, s.ranks, time.Now().UTC())
	if err != nil {
		return err
	}

	if err := s.history.Append(ctx, tx, entry); err != nil {
		return err
	}

	s.logger.Debug("Applied point delta",
		zap.Uint64("userID", account.UserID),
		zap.String("action", action.String()),
		zap.Int64("delta", delta),
		zap.Int64("totalPoints", account.TotalPoints))

	return nil
}

// AuditHistory compares a user's account total against the total reached by
// replaying the full history from zero. A mismatch is a corruption signal
// that only recalculation may repair.
func (s *LedgerService) AuditHistory(ctx context.Context, userID uint64) (bool, error) {
	account, err := s.account.Get(ctx, userID)
	if err != nil {
		return false, err
	}

	if account == nil {
		return true, nil
	}

	replayed, err := s.history.ReplayTotal(ctx, userID)
	if err != nil {
		return false, err
	}

	if replayed != account.TotalPoints {
		s.logger.Warn("History replay does not match account total",
			zap.Uint64("userID", userID),
			zap.Int64("accountTotal", account.TotalPoints),
			zap.Int64("replayedTotal", replayed))

		return false, nil
	}

	return true, nil
}

// Points returns the point economy the ledger applies.
func (s *LedgerService) Points() *config.Points {
	return s.points
}

// Ranks returns the rank threshold table.
func (s *LedgerService) Ranks() *RankTable {
	return s.ranks
}
