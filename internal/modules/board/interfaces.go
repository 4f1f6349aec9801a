package board

import (
	"context"

	"pipecrm/internal/domain"
	"pipecrm/internal/repository"
)

type DealRepository interface {
	StageSummaries(ctx context.Context, pipelineID int64) ([]repository.StageSummary, error)
	CountBySaleStatus(ctx context.Context, pipelineID int64) (map[domain.SaleStatus]int64, error)
	ListByPipeline(ctx context.Context, pipelineID int64) ([]domain.Deal, error)
}

type PipelineRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Pipeline, error)
}
