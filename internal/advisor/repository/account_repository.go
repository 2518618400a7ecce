package repository

import (
	"context"

	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/entity"

	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a gorm-backed account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetAccounts(ctx context.Context, param dto.GetAccountsParam) ([]entity.Account, error) {
	var accounts []entity.Account

	query := r.db.WithContext(ctx).
		Preload("OptionPositions", "is_open = ?", true).
		Preload("StockHoldings")

	if param.AccountID != nil {
		query = query.Where("id = ?", *param.AccountID)
	}
	if param.IsActive != nil {
		query = query.Where("is_active = ?", *param.IsActive)
	}

	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

type watchlistRepository struct {
	db *gorm.DB
}

// NewWatchlistRepository creates a gorm-backed watchlist repository.
func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) GetAll(ctx context.Context) ([]entity.WatchlistEntry, error) {
	var entries []entity.WatchlistEntry
	if err := r.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
