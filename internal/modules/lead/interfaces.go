package lead

import (
	"context"

	"pipecrm/internal/domain"
	"pipecrm/internal/repository"
)

type LeadRepository interface {
	Create(ctx context.Context, l *domain.Lead) error
	GetByID(ctx context.Context, id int64) (*domain.Lead, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) (*domain.Lead, error)
	List(ctx context.Context, f repository.LeadFilters) ([]domain.Lead, int64, error)
}
