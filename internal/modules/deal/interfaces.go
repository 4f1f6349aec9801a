package deal

import (
	"context"

	"pipecrm/internal/domain"
	"pipecrm/internal/repository"
)

// DealRepository is the slice of the entity store the transition engine and
// the cascade coordinator consume.
type DealRepository interface {
	Create(ctx context.Context, d *domain.Deal, act *domain.LeadActivity) error
	GetByID(ctx context.Context, id int64) (*domain.Deal, error)
	ListByPipeline(ctx context.Context, pipelineID int64) ([]domain.Deal, error)
	ListByLead(ctx context.Context, leadID int64) ([]domain.Deal, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) (*domain.Deal, error)
	ApplyTransition(ctx context.Context, dealID int64, tr repository.StageTransition) (*domain.Deal, error)
	DeleteCascade(ctx context.Context, id int64) error
}

type PipelineRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Pipeline, error)
	GetDefault(ctx context.Context) (*domain.Pipeline, error)
	GetStageByID(ctx context.Context, id int64) (*domain.PipelineStage, error)
	FirstStage(ctx context.Context, pipelineID int64) (*domain.PipelineStage, error)
	EntryStage(ctx context.Context, pipelineID int64) (*domain.PipelineStage, error)
	StageByType(ctx context.Context, pipelineID int64, t domain.StageType) (*domain.PipelineStage, error)
}

type LeadRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Lead, error)
}

type HistoryRepository interface {
	ListByDeal(ctx context.Context, dealID int64) ([]domain.StageHistory, error)
}

type LossReasonRepository interface {
	GetLossReason(ctx context.Context, id int64) (*domain.LossReason, error)
}

// BoardInvalidator drops cached board summaries after a successful mutation.
type BoardInvalidator interface {
	InvalidatePipeline(ctx context.Context, pipelineID int64)
}

// Notifier pushes board events to connected kanban clients. Best effort;
// failures never affect the transition outcome.
type Notifier interface {
	NotifyDealMoved(pipelineID, dealID, stageID int64)
	NotifyDealOutcome(pipelineID, dealID int64, status domain.SaleStatus)
	NotifyDealDeleted(pipelineID, dealID int64)
}
