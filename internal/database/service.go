package database

import (
	"github.com/uptrace/bun"
	"github.com/volunthub/reputation/internal/database/service"
	"github.com/volunthub/reputation/internal/setup/config"
	"go.uber.org/zap"
)

// Service provides access to all engine services.
type Service struct {
	ledger      *service.LedgerService
	streak      *service.StreakService
	badge       *service.BadgeService
	recalc      *service.RecalculationService
	leaderboard *service.LeaderboardService
}

// NewService creates a new service instance with all services.
func NewService(db *bun.DB, repository *Repository, cfg *config.Config, logger *zap.Logger) *Service {
	accountModel := repository.Account()
	historyModel := repository.History()
	badgeModel := repository.Badge()

	ranks := service.NewRankTable(cfg.Ranks)
	ledger := service.NewLedger(db, accountModel, historyModel, &cfg.Points, ranks, logger)
	badge := service.NewBadge(db, badgeModel, accountModel, ledger, logger)
	ledger.AttachEvaluator(badge)

	return &Service{
		ledger:      ledger,
		streak:      service.NewStreak(db, accountModel, ledger, badge, &cfg.Points, logger),
		badge:       badge,
		recalc:      service.NewRecalculation(db, accountModel, badgeModel, &cfg.Points, ranks, logger),
		leaderboard: service.NewLeaderboard(accountModel, historyModel, badgeModel, ranks, logger),
	}
}

// Ledger returns the reputation ledger service.
func (s *Service) Ledger() *service.LedgerService {
	return s.ledger
}

// Streak returns the streak tracker service.
func (s *Service) Streak() *service.StreakService {
	return s.streak
}

// Badge returns the badge evaluator service.
func (s *Service) Badge() *service.BadgeService {
	return s.badge
}

// Recalculation returns the recalculation service.
func (s *Service) Recalculation() *service.RecalculationService {
	return s.recalc
}

// Leaderboard returns the leaderboard and dashboard query service.
func (s *Service) Leaderboard() *service.LeaderboardService {
	return s.leaderboard
}
