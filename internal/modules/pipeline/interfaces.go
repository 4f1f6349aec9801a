package pipeline

import (
	"context"

	"pipecrm/internal/domain"
)

type PipelineRepository interface {
	Create(ctx context.Context, p *domain.Pipeline) error
	GetByID(ctx context.Context, id int64) (*domain.Pipeline, error)
	List(ctx context.Context) ([]domain.Pipeline, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) (*domain.Pipeline, error)
	Delete(ctx context.Context, id int64) error
	GetDefault(ctx context.Context) (*domain.Pipeline, error)
	SetDefault(ctx context.Context, id int64) error

	CreateStage(ctx context.Context, s *domain.PipelineStage) error
	GetStageByID(ctx context.Context, id int64) (*domain.PipelineStage, error)
	UpdateStage(ctx context.Context, id int64, updates map[string]interface{}) (*domain.PipelineStage, error)
	DeleteStage(ctx context.Context, id int64) error
	ListStages(ctx context.Context, pipelineID int64) ([]domain.PipelineStage, error)
	StageOrderTaken(ctx context.Context, pipelineID int64, order int, excludeStageID int64) (bool, error)
	StageTypeTaken(ctx context.Context, pipelineID int64, t domain.StageType, excludeStageID int64) (bool, error)
}

// DealCounter answers whether deals still reference a pipeline or stage,
// which blocks structural deletes.
type DealCounter interface {
	CountByStage(ctx context.Context, stageID int64) (int64, error)
	CountByPipeline(ctx context.Context, pipelineID int64) (int64, error)
}

type BoardInvalidator interface {
	InvalidatePipeline(ctx context.Context, pipelineID int64)
}
