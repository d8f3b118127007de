package database

import (
	"github.com/uptrace/bun"
	"github.com/volunthub/reputation/internal/database/models"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	account *models.AccountModel
	history *models.HistoryModel
	badge   *models.BadgeModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		account: models.NewAccount(db, logger),
		history: models.NewHistory(db, logger),
		badge:   models.NewBadge(db, logger),
	}
}

// Account returns the reputation account model repository.
func (r *Repository) Account() *models.AccountModel {
	return r.account
}

// History returns the reputation history model repository.
func (r *Repository) History() *models.HistoryModel {
	return r.history
}

// Badge returns the badge model repository.
func (r *Repository) Badge() *models.BadgeModel {
	return r.badge
}
