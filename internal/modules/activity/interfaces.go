package activity

import (
	"context"

	"pipecrm/internal/domain"
)

type ActivityRepository interface {
	Create(ctx context.Context, a *domain.LeadActivity) error
	ListByDeal(ctx context.Context, dealID int64, limit, offset int) ([]domain.LeadActivity, int64, error)
}

type DealRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Deal, error)
}
