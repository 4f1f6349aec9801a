package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"pipecrm/internal/cache"
	"pipecrm/internal/domain"
	"pipecrm/internal/repository"

	"gorm.io/gorm"
)

const summaryTTL = 60 * time.Second

// Summary is the kanban read model for one pipeline: per-stage column
// aggregates plus the open/won/lost breakdown.
type Summary struct {
	PipelineID   int64                       `json:"pipeline_id"`
	PipelineName string                      `json:"pipeline_name"`
	Stages       []repository.StageSummary   `json:"stages"`
	SaleStatus   map[domain.SaleStatus]int64 `json:"sale_status"`
	GeneratedAt  time.Time                   `json:"generated_at"`
}

type Service struct {
	deals     DealRepository
	pipelines PipelineRepository
	cache     cache.Cache
}

func NewService(deals DealRepository, pipelines PipelineRepository, c cache.Cache) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{deals: deals, pipelines: pipelines, cache: c}
}

func summaryKey(pipelineID int64) string {
	return fmt.Sprintf("board:pipeline:%d", pipelineID)
}

// GetSummary serves the board from cache when possible. Cache failures other
// than a miss degrade to a direct read; the board must render regardless.
func (s *Service) GetSummary(ctx context.Context, pipelineID int64) (*Summary, error) {
	key := summaryKey(pipelineID)

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var cached Summary
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &cached, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("board: cache get failed key=%s err=%v", key, err)
	}

	summary, err := s.buildSummary(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), summaryTTL); err != nil {
			log.Printf("board: cache set failed key=%s err=%v", key, err)
		}
	}
	return summary, nil
}

func (s *Service) buildSummary(ctx context.Context, pipelineID int64) (*Summary, error) {
	p, err := s.pipelines.GetByID(ctx, pipelineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPipelineNotFound
		}
		return nil, err
	}

	stages, err := s.deals.StageSummaries(ctx, pipelineID)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.deals.CountBySaleStatus(ctx, pipelineID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		PipelineID:   p.ID,
		PipelineName: p.Name,
		Stages:       stages,
		SaleStatus:   byStatus,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// ListDeals is the uncached companion read for rendering cards.
func (s *Service) ListDeals(ctx context.Context, pipelineID int64) ([]domain.Deal, error) {
	if _, err := s.pipelines.GetByID(ctx, pipelineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPipelineNotFound
		}
		return nil, err
	}
	return s.deals.ListByPipeline(ctx, pipelineID)
}

// InvalidatePipeline drops the cached summary after a mutation. Implements
// the invalidator interface the write-side modules depend on.
func (s *Service) InvalidatePipeline(ctx context.Context, pipelineID int64) {
	if err := s.cache.Delete(ctx, summaryKey(pipelineID)); err != nil {
		log.Printf("board: cache delete failed pipeline=%d err=%v", pipelineID, err)
	}
}
