package repository

import (
	"context"

	"pipecrm/internal/domain"

	"gorm.io/gorm"
)

// ActivityRepository is append-only: there is deliberately no update or
// delete method for the timeline.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a *domain.LeadActivity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ActivityRepository) ListByDeal(ctx context.Context, dealID int64, limit, offset int) ([]domain.LeadActivity, int64, error) {
	var rows []domain.LeadActivity
	var total int64

	q := r.db.WithContext(ctx).Model(&domain.LeadActivity{}).Where("deal_id = ?", dealID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *ActivityRepository) CountByDeal(ctx context.Context, dealID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.LeadActivity{}).Where("deal_id = ?", dealID).Count(&cnt).Error
	return cnt, err
}
