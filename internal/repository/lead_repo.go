package repository

import (
	"context"

	"pipecrm/internal/domain"

	"gorm.io/gorm"
)

type LeadFilters struct {
	Search   string
	Category string
	City     string
	Limit    int
	Offset   int
}

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, l *domain.Lead) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LeadRepository) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	var l domain.Lead
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*domain.Lead, error) {
	res := r.db.WithContext(ctx).Model(&domain.Lead{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *LeadRepository) List(ctx context.Context, f LeadFilters) ([]domain.Lead, int64, error) {
	var leads []domain.Lead
	var total int64

	q := r.db.WithContext(ctx).Model(&domain.Lead{})

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR company_name LIKE ? OR email LIKE ?", like, like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("name ASC").Limit(f.Limit).Offset(f.Offset).Find(&leads).Error
	return leads, total, err
}
