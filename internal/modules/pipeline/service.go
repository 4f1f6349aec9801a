package pipeline

import (
	"context"
	"errors"
	"time"

	"pipecrm/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Service struct {
	pipelines PipelineRepository
	deals     DealCounter
	board     BoardInvalidator
}

func NewService(pipelines PipelineRepository, deals DealCounter, board BoardInvalidator) *Service {
	return &Service{pipelines: pipelines, deals: deals, board: board}
}

// CreatePipeline creates a workflow, optionally seeded with stages. Stage
// rules (unique order, single completed and lost stage) apply to the seed set
// as well.
func (s *Service) CreatePipeline(ctx context.Context, req CreatePipelineRequest) (*domain.Pipeline, error) {
	if req.Name == "" {
		return nil, ErrValidation
	}

	seenOrders := map[int]bool{}
	seenTypes := map[domain.StageType]bool{}
	for _, in := range req.Stages {
		if in.Name == "" || in.Order <= 0 {
			return nil, ErrValidation
		}
		if seenOrders[in.Order] {
			return nil, ErrOrderTaken
		}
		seenOrders[in.Order] = true

		t := stageType(in.StageType)
		if t != domain.StageTypeNormal {
			if seenTypes[t] {
				return nil, ErrStageTypeTaken
			}
			seenTypes[t] = true
		}
	}

	now := time.Now().UTC()
	p := &domain.Pipeline{
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, in := range req.Stages {
		p.Stages = append(p.Stages, domain.PipelineStage{
			Name:      in.Name,
			Order:     in.Order,
			StageType: stageType(in.StageType),
			IsDefault: in.IsDefault,
			IsHidden:  in.IsHidden,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.pipelines.Create(ctx, p); err != nil {
		if isStageOrderViolation(err) {
			return nil, ErrOrderTaken
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPipeline(ctx context.Context, id int64) (*domain.Pipeline, error) {
	p, err := s.pipelines.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPipelineNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) ListPipelines(ctx context.Context) ([]domain.Pipeline, error) {
	return s.pipelines.List(ctx)
}

func (s *Service) UpdatePipeline(ctx context.Context, id int64, req UpdatePipelineRequest) (*domain.Pipeline, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrValidation
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		return s.GetPipeline(ctx, id)
	}
	updates["updated_at"] = time.Now().UTC()

	p, err := s.pipelines.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPipelineNotFound
		}
		return nil, err
	}
	return p, nil
}

// DeletePipeline removes a pipeline and its stages. Refused while any deal
// still lives in it, and refused outright for the default pipeline.
func (s *Service) DeletePipeline(ctx context.Context, id int64) error {
	p, err := s.GetPipeline(ctx, id)
	if err != nil {
		return err
	}
	if p.IsDefault {
		return ErrDefaultPipeline
	}

	cnt, err := s.deals.CountByPipeline(ctx, id)
	if err != nil {
		return err
	}
	if cnt > 0 {
		return ErrPipelineInUse
	}

	if err := s.pipelines.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPipelineNotFound
		}
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *Service) SetDefaultPipeline(ctx context.Context, id int64) (*domain.Pipeline, error) {
	if err := s.pipelines.SetDefault(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPipelineNotFound
		}
		return nil, err
	}
	return s.GetPipeline(ctx, id)
}

// CreateStage appends a stage to a pipeline. Order must be free within the
// pipeline and completed/lost stages are singletons.
func (s *Service) CreateStage(ctx context.Context, pipelineID int64, req CreateStageRequest) (*domain.PipelineStage, error) {
	p, err := s.GetPipeline(ctx, pipelineID)
	if err != nil {
		return nil, err
	}
	if p.HasFixedStages {
		return nil, ErrFixedStages
	}

	taken, err := s.pipelines.StageOrderTaken(ctx, pipelineID, req.Order, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrOrderTaken
	}

	t := stageType(req.StageType)
	if t != domain.StageTypeNormal {
		typeTaken, err := s.pipelines.StageTypeTaken(ctx, pipelineID, t, 0)
		if err != nil {
			return nil, err
		}
		if typeTaken {
			return nil, ErrStageTypeTaken
		}
	}

	now := time.Now().UTC()
	stage := &domain.PipelineStage{
		PipelineID: pipelineID,
		Name:       req.Name,
		Order:      req.Order,
		StageType:  t,
		IsDefault:  req.IsDefault,
		IsHidden:   req.IsHidden,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.pipelines.CreateStage(ctx, stage); err != nil {
		// The pre-check races with concurrent writers; the index has the
		// final word.
		if isStageOrderViolation(err) {
			return nil, ErrOrderTaken
		}
		return nil, err
	}

	s.invalidate(ctx, pipelineID)
	return stage, nil
}

// UpdateStage edits a stage. Pipelines with a fixed stage set reject stage
// edits entirely, and system stages are immutable through this flow.
func (s *Service) UpdateStage(ctx context.Context, pipelineID, stageID int64, req UpdateStageRequest) (*domain.PipelineStage, error) {
	p, err := s.GetPipeline(ctx, pipelineID)
	if err != nil {
		return nil, err
	}
	if p.HasFixedStages {
		return nil, ErrFixedStages
	}

	stage, err := s.getStageInPipeline(ctx, pipelineID, stageID)
	if err != nil {
		return nil, err
	}
	if stage.IsSystem {
		return nil, ErrSystemStage
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrValidation
		}
		updates["name"] = *req.Name
	}
	if req.Order != nil && *req.Order != stage.Order {
		taken, err := s.pipelines.StageOrderTaken(ctx, pipelineID, *req.Order, stageID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrOrderTaken
		}
		updates["sort_order"] = *req.Order
	}
	if req.StageType != nil && stageType(*req.StageType) != stage.StageType {
		t := stageType(*req.StageType)
		if t != domain.StageTypeNormal {
			typeTaken, err := s.pipelines.StageTypeTaken(ctx, pipelineID, t, stageID)
			if err != nil {
				return nil, err
			}
			if typeTaken {
				return nil, ErrStageTypeTaken
			}
		}
		updates["stage_type"] = string(t)
	}
	if req.IsDefault != nil {
		updates["is_default"] = *req.IsDefault
	}
	if req.IsHidden != nil {
		updates["is_hidden"] = *req.IsHidden
	}
	if len(updates) == 0 {
		return stage, nil
	}
	updates["updated_at"] = time.Now().UTC()

	updated, err := s.pipelines.UpdateStage(ctx, stageID, updates)
	if err != nil {
		if isStageOrderViolation(err) {
			return nil, ErrOrderTaken
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}

	s.invalidate(ctx, pipelineID)
	return updated, nil
}

// DeleteStage removes an empty, non-system stage from a pipeline whose stage
// set is editable.
func (s *Service) DeleteStage(ctx context.Context, pipelineID, stageID int64) error {
	p, err := s.GetPipeline(ctx, pipelineID)
	if err != nil {
		return err
	}
	if p.HasFixedStages {
		return ErrFixedStages
	}

	stage, err := s.getStageInPipeline(ctx, pipelineID, stageID)
	if err != nil {
		return err
	}
	if stage.IsSystem {
		return ErrSystemStage
	}

	cnt, err := s.deals.CountByStage(ctx, stageID)
	if err != nil {
		return err
	}
	if cnt > 0 {
		return ErrStageInUse
	}

	if err := s.pipelines.DeleteStage(ctx, stageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStageNotFound
		}
		return err
	}

	s.invalidate(ctx, pipelineID)
	return nil
}

func (s *Service) ListStages(ctx context.Context, pipelineID int64) ([]domain.PipelineStage, error) {
	if _, err := s.GetPipeline(ctx, pipelineID); err != nil {
		return nil, err
	}
	return s.pipelines.ListStages(ctx, pipelineID)
}

func (s *Service) getStageInPipeline(ctx context.Context, pipelineID, stageID int64) (*domain.PipelineStage, error) {
	stage, err := s.pipelines.GetStageByID(ctx, stageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	if stage.PipelineID != pipelineID {
		return nil, ErrStageNotFound
	}
	return stage, nil
}

func (s *Service) invalidate(ctx context.Context, pipelineID int64) {
	if s.board != nil {
		s.board.InvalidatePipeline(ctx, pipelineID)
	}
}

func stageType(v string) domain.StageType {
	if v == "" {
		return domain.StageTypeNormal
	}
	return domain.StageType(v)
}

func isStageOrderViolation(err error) bool {
	if pgErr, ok := err.(*pgconn.PgError); ok {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "idx_stage_order_per_pipeline"
	}
	return false
}
