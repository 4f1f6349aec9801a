package repository

import (
	"context"

	"pipecrm/internal/domain"

	"gorm.io/gorm"
)

// CatalogRepository covers the soft-deleted registry entities. Rows are never
// hard-deleted: historical deals keep referencing deactivated entries.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// --- loss reasons ---

func (r *CatalogRepository) CreateLossReason(ctx context.Context, lr *domain.LossReason) error {
	lr.Active = true
	return r.db.WithContext(ctx).Create(lr).Error
}

func (r *CatalogRepository) GetLossReason(ctx context.Context, id int64) (*domain.LossReason, error) {
	var lr domain.LossReason
	if err := r.db.WithContext(ctx).First(&lr, id).Error; err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *CatalogRepository) ListLossReasons(ctx context.Context, activeOnly bool) ([]domain.LossReason, error) {
	var rows []domain.LossReason
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	return rows, q.Find(&rows).Error
}

func (r *CatalogRepository) SetLossReasonActive(ctx context.Context, id int64, active bool) error {
	res := r.db.WithContext(ctx).Model(&domain.LossReason{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --- sale performance reasons ---

func (r *CatalogRepository) CreatePerformanceReason(ctx context.Context, pr *domain.SalePerformanceReason) error {
	pr.Active = true
	return r.db.WithContext(ctx).Create(pr).Error
}

func (r *CatalogRepository) ListPerformanceReasons(ctx context.Context, activeOnly bool) ([]domain.SalePerformanceReason, error) {
	var rows []domain.SalePerformanceReason
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	return rows, q.Find(&rows).Error
}

func (r *CatalogRepository) SetPerformanceReasonActive(ctx context.Context, id int64, active bool) error {
	res := r.db.WithContext(ctx).Model(&domain.SalePerformanceReason{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --- machine brands / models ---

func (r *CatalogRepository) CreateBrand(ctx context.Context, b *domain.MachineBrand) error {
	b.Active = true
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *CatalogRepository) ListBrands(ctx context.Context, activeOnly bool) ([]domain.MachineBrand, error) {
	var rows []domain.MachineBrand
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	return rows, q.Find(&rows).Error
}

func (r *CatalogRepository) SetBrandActive(ctx context.Context, id int64, active bool) error {
	res := r.db.WithContext(ctx).Model(&domain.MachineBrand{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) CreateModel(ctx context.Context, m *domain.MachineModel) error {
	m.Active = true
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *CatalogRepository) ListModelsByBrand(ctx context.Context, brandID int64, activeOnly bool) ([]domain.MachineModel, error) {
	var rows []domain.MachineModel
	q := r.db.WithContext(ctx).Where("brand_id = ?", brandID).Order("name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	return rows, q.Find(&rows).Error
}

func (r *CatalogRepository) SetModelActive(ctx context.Context, id int64, active bool) error {
	res := r.db.WithContext(ctx).Model(&domain.MachineModel{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
