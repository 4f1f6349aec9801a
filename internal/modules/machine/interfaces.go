package machine

import (
	"context"

	"pipecrm/internal/domain"
)

type MachineRepository interface {
	Create(ctx context.Context, m *domain.ClientMachine) error
	GetByID(ctx context.Context, id int64) (*domain.ClientMachine, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) (*domain.ClientMachine, error)
	Delete(ctx context.Context, id int64) error
	ListByDeal(ctx context.Context, dealID int64) ([]domain.ClientMachine, error)
}

type DealRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Deal, error)
}
