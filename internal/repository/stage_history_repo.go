package repository

import (
	"context"

	"pipecrm/internal/domain"

	"gorm.io/gorm"
)

// StageHistoryRepository is read-side only: history rows are written by the
// deal repository inside transition transactions and never mutated by
// handlers.
type StageHistoryRepository struct {
	db *gorm.DB
}

func NewStageHistoryRepository(db *gorm.DB) *StageHistoryRepository {
	return &StageHistoryRepository{db: db}
}

func (r *StageHistoryRepository) ListByDeal(ctx context.Context, dealID int64) ([]domain.StageHistory, error) {
	var rows []domain.StageHistory
	err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("entered_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// OpenEntry returns the row for the stage the deal currently occupies.
func (r *StageHistoryRepository) OpenEntry(ctx context.Context, dealID int64) (*domain.StageHistory, error) {
	var row domain.StageHistory
	err := r.db.WithContext(ctx).
		Where("deal_id = ? AND left_at IS NULL", dealID).
		Order("entered_at DESC, id DESC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *StageHistoryRepository) CountByDeal(ctx context.Context, dealID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.StageHistory{}).Where("deal_id = ?", dealID).Count(&cnt).Error
	return cnt, err
}
