package repository

import (
	"context"

	"pipecrm/internal/domain"

	"gorm.io/gorm"
)

type MachineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) *MachineRepository {
	return &MachineRepository{db: db}
}

func (r *MachineRepository) Create(ctx context.Context, m *domain.ClientMachine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MachineRepository) GetByID(ctx context.Context, id int64) (*domain.ClientMachine, error) {
	var m domain.ClientMachine
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MachineRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*domain.ClientMachine, error) {
	res := r.db.WithContext(ctx).Model(&domain.ClientMachine{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *MachineRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.ClientMachine{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MachineRepository) ListByDeal(ctx context.Context, dealID int64) ([]domain.ClientMachine, error) {
	var machines []domain.ClientMachine
	err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at ASC, id ASC").
		Find(&machines).Error
	return machines, err
}
