package deal

import (
	"context"
	"errors"
	"time"

	"pipecrm/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	deals     DealRepository
	pipelines PipelineRepository
	leads     LeadRepository
	history   HistoryRepository
	reasons   LossReasonRepository
	board     BoardInvalidator
	notifs    Notifier
}

func NewService(
	deals DealRepository,
	pipelines PipelineRepository,
	leads LeadRepository,
	history HistoryRepository,
	reasons LossReasonRepository,
	board BoardInvalidator,
	notifs Notifier,
) *Service {
	return &Service{
		deals:     deals,
		pipelines: pipelines,
		leads:     leads,
		history:   history,
		reasons:   reasons,
		board:     board,
		notifs:    notifs,
	}
}

// CreateDeal converts a lead into an opportunity. The deal lands on the
// target pipeline's entry stage (default-flagged stage, else lowest order)
// in negotiation.
func (s *Service) CreateDeal(ctx context.Context, req CreateDealRequest) (*domain.Deal, error) {
	if req.Name == "" {
		return nil, ErrValidation
	}

	if _, err := s.leads.GetByID(ctx, req.LeadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	var pipeline *domain.Pipeline
	var err error
	if req.PipelineID > 0 {
		pipeline, err = s.pipelines.GetByID(ctx, req.PipelineID)
	} else {
		pipeline, err = s.pipelines.GetDefault(ctx)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPipelineNotFound
		}
		return nil, err
	}

	entry, err := s.pipelines.EntryStage(ctx, pipeline.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPipelineEmpty
		}
		return nil, err
	}

	now := time.Now().UTC()
	d := &domain.Deal{
		Name:       req.Name,
		LeadID:     req.LeadID,
		PipelineID: pipeline.ID,
		StageID:    entry.ID,
		Status:     domain.DealInProgress,
		SaleStatus: domain.SaleNegotiation,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	act := &domain.LeadActivity{
		Type:        domain.ActivityDealCreated,
		Description: "Deal created in stage " + entry.Name,
	}

	if err := s.deals.Create(ctx, d, act); err != nil {
		return nil, err
	}

	s.invalidate(ctx, d.PipelineID)
	if s.notifs != nil {
		s.notifs.NotifyDealMoved(d.PipelineID, d.ID, d.StageID)
	}
	return d, nil
}

func (s *Service) GetDeal(ctx context.Context, id int64) (*domain.Deal, error) {
	d, err := s.deals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *Service) ListByPipeline(ctx context.Context, pipelineID int64) ([]domain.Deal, error) {
	return s.deals.ListByPipeline(ctx, pipelineID)
}

func (s *Service) ListByLead(ctx context.Context, leadID int64) ([]domain.Deal, error) {
	return s.deals.ListByLead(ctx, leadID)
}

// UpdateDeal covers the plain fields: name, notes, operational status and
// manual board position. Stage and outcome go through the transition engine.
func (s *Service) UpdateDeal(ctx context.Context, id int64, req UpdateDealRequest) (*domain.Deal, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrValidation
		}
		updates["name"] = *req.Name
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Status != nil {
		switch domain.DealStatus(*req.Status) {
		case domain.DealInProgress, domain.DealWaiting, domain.DealCompleted, domain.DealCanceled:
			updates["status"] = *req.Status
		default:
			return nil, ErrValidation
		}
	}
	if req.Order != nil {
		updates["sort_order"] = *req.Order
	}
	if len(updates) == 0 {
		return s.GetDeal(ctx, id)
	}
	updates["updated_at"] = time.Now().UTC()

	d, err := s.deals.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}

	s.invalidate(ctx, d.PipelineID)
	return d, nil
}

// MoveToStage relocates the deal within its current pipeline. A stage from
// another pipeline is rejected before anything is written.
func (s *Service) MoveToStage(ctx context.Context, dealID, stageID int64) (*domain.Deal, error) {
	d, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, d, event{kind: eventMoveStage, stageID: stageID})
}

// SwitchPipeline reassigns the deal to another workflow. With no explicit
// stage (or an invalid one) the deal enters the new pipeline's first stage.
func (s *Service) SwitchPipeline(ctx context.Context, dealID, pipelineID int64, stageID int64) (*domain.Deal, error) {
	d, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if d.PipelineID == pipelineID {
		if stageID > 0 {
			return s.transition(ctx, d, event{kind: eventMoveStage, stageID: stageID})
		}
		return d, nil
	}
	return s.transition(ctx, d, event{kind: eventSwitchPipeline, pipelineID: pipelineID, stageID: stageID})
}

// SetSaleOutcome closes the deal as won or lost, relocating it to the
// pipeline's reserved stage when one exists.
func (s *Service) SetSaleOutcome(ctx context.Context, dealID int64, req OutcomeRequest) (*domain.Deal, error) {
	d, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, d, event{
		kind:         eventSetOutcome,
		outcome:      domain.SaleStatus(req.Outcome),
		performance:  domain.SalePerformance(req.SalePerformance),
		lostReasonID: req.LostReasonID,
		lostNotes:    req.LostNotes,
	})
}

// ReopenDeal puts a closed deal back into negotiation without moving its
// stage.
func (s *Service) ReopenDeal(ctx context.Context, dealID int64) (*domain.Deal, error) {
	d, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if !d.IsClosed() {
		return d, nil
	}
	return s.transition(ctx, d, event{kind: eventReopen})
}

// DeleteDeal removes the deal and everything hanging off it. A missing deal
// short-circuits before any transaction starts.
func (s *Service) DeleteDeal(ctx context.Context, dealID int64) error {
	d, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return err
	}

	if err := s.deals.DeleteCascade(ctx, dealID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDealNotFound
		}
		return err
	}

	s.invalidate(ctx, d.PipelineID)
	if s.notifs != nil {
		s.notifs.NotifyDealDeleted(d.PipelineID, d.ID)
	}
	return nil
}

// StageTimeline returns the deal's stage occupancy history, oldest first.
func (s *Service) StageTimeline(ctx context.Context, dealID int64) ([]domain.StageHistory, error) {
	if _, err := s.GetDeal(ctx, dealID); err != nil {
		return nil, err
	}
	return s.history.ListByDeal(ctx, dealID)
}
