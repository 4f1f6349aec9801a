package deal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pipecrm/internal/domain"
	"pipecrm/internal/repository"

	"gorm.io/gorm"
)

// The engine models a deal's state as the pair (stage, sale status). Every
// stage, pipeline or outcome change funnels through transition, which is the
// single place the cross-reference invariant (stage belongs to pipeline) is
// checked, since storage does not enforce it.

type eventKind int

const (
	eventMoveStage eventKind = iota
	eventSwitchPipeline
	eventSetOutcome
	eventReopen
)

type event struct {
	kind         eventKind
	stageID      int64
	pipelineID   int64
	outcome      domain.SaleStatus
	performance  domain.SalePerformance
	lostReasonID int64
	lostNotes    string
}

var performanceLabels = map[domain.SalePerformance]string{
	domain.PerformanceBelowQuote: "below quoted value",
	domain.PerformanceAtQuote:    "at quoted value",
	domain.PerformanceAboveQuote: "above quoted value",
}

func (s *Service) transition(ctx context.Context, d *domain.Deal, ev event) (*domain.Deal, error) {
	var tr repository.StageTransition
	tr.OccurredAt = time.Now().UTC()

	oldPipelineID := d.PipelineID

	switch ev.kind {
	case eventMoveStage:
		stage, err := s.pipelines.GetStageByID(ctx, ev.stageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStageNotFound
			}
			return nil, err
		}
		if stage.PipelineID != d.PipelineID {
			return nil, ErrStageNotInPipeline
		}
		if stage.ID == d.StageID {
			return d, nil
		}

		desc := fmt.Sprintf("Deal moved to %q", stage.Name)
		if from, err := s.pipelines.GetStageByID(ctx, d.StageID); err == nil {
			desc = fmt.Sprintf("Deal moved from %q to %q", from.Name, stage.Name)
		}
		tr.ToStageID = &stage.ID
		tr.Activity = &domain.LeadActivity{Type: domain.ActivityStageChange, Description: desc}

	case eventSwitchPipeline:
		target, err := s.pipelines.GetByID(ctx, ev.pipelineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPipelineNotFound
			}
			return nil, err
		}

		stage, err := s.resolveEntryStage(ctx, target.ID, ev.stageID)
		if err != nil {
			return nil, err
		}

		desc := fmt.Sprintf("Deal moved to pipeline %q, entering stage %q", target.Name, stage.Name)
		if from, err := s.pipelines.GetByID(ctx, d.PipelineID); err == nil {
			desc = fmt.Sprintf("Deal moved from pipeline %q to %q, entering stage %q", from.Name, target.Name, stage.Name)
		}
		tr.ToStageID = &stage.ID
		tr.ToPipelineID = &target.ID
		tr.Activity = &domain.LeadActivity{Type: domain.ActivityPipelineChange, Description: desc}

	case eventSetOutcome:
		switch ev.outcome {
		case domain.SaleWon:
			// A win always carries its performance classification; the
			// binding layer enforces this for HTTP callers, this check
			// covers everyone else.
			label, ok := performanceLabels[ev.performance]
			if !ok {
				return nil, ErrValidation
			}

			status := domain.SaleWon
			tr.SaleStatus = &status
			perf := ev.performance
			tr.SalePerformance = &perf
			tr.Activity = &domain.LeadActivity{
				Type:        domain.ActivitySaleWon,
				Description: fmt.Sprintf("Deal marked as won (%s)", label),
			}

			s.attachOutcomeStage(ctx, d, domain.StageTypeCompleted, &tr)

		case domain.SaleLost:
			status := domain.SaleLost
			tr.SaleStatus = &status

			reason, err := s.reasons.GetLossReason(ctx, ev.lostReasonID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrLossReasonNotFound
				}
				return nil, err
			}
			tr.LostReasonID = &reason.ID
			if ev.lostNotes != "" {
				notes := ev.lostNotes
				tr.LostNotes = &notes
			}
			tr.Activity = &domain.LeadActivity{
				Type:        domain.ActivitySaleLost,
				Description: fmt.Sprintf("Deal marked as lost: %s", reason.Name),
			}

			s.attachOutcomeStage(ctx, d, domain.StageTypeLost, &tr)

		default:
			return nil, ErrInvalidOutcome
		}

	case eventReopen:
		status := domain.SaleNegotiation
		tr.SaleStatus = &status
		tr.ClearOutcome = true
		// Reopening deliberately leaves the stage where it is; moving the
		// deal back is a separate, explicit move.
		tr.Activity = &domain.LeadActivity{Type: domain.ActivityDealReopened, Description: "Deal reopened for negotiation"}
	}

	updated, err := s.deals.ApplyTransition(ctx, d.ID, tr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}

	s.invalidate(ctx, oldPipelineID)
	if updated.PipelineID != oldPipelineID {
		s.invalidate(ctx, updated.PipelineID)
	}

	if s.notifs != nil {
		switch ev.kind {
		case eventMoveStage, eventSwitchPipeline:
			s.notifs.NotifyDealMoved(updated.PipelineID, updated.ID, updated.StageID)
		case eventSetOutcome, eventReopen:
			s.notifs.NotifyDealOutcome(updated.PipelineID, updated.ID, updated.SaleStatus)
		}
	}

	return updated, nil
}

// resolveEntryStage picks where a deal lands in a target pipeline: the
// requested stage when it genuinely belongs there, otherwise the stage with
// the lowest order.
func (s *Service) resolveEntryStage(ctx context.Context, pipelineID, requestedStageID int64) (*domain.PipelineStage, error) {
	if requestedStageID > 0 {
		stage, err := s.pipelines.GetStageByID(ctx, requestedStageID)
		if err == nil && stage.PipelineID == pipelineID {
			return stage, nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	stage, err := s.pipelines.FirstStage(ctx, pipelineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPipelineEmpty
		}
		return nil, err
	}
	return stage, nil
}

// attachOutcomeStage routes the deal to its pipeline's reserved completed or
// lost stage. A pipeline without one is not an error: the outcome is still
// recorded and the stage stays put.
func (s *Service) attachOutcomeStage(ctx context.Context, d *domain.Deal, t domain.StageType, tr *repository.StageTransition) {
	stage, err := s.pipelines.StageByType(ctx, d.PipelineID, t)
	if err != nil {
		return
	}
	tr.ToStageID = &stage.ID
}

func (s *Service) invalidate(ctx context.Context, pipelineID int64) {
	if s.board != nil {
		s.board.InvalidatePipeline(ctx, pipelineID)
	}
}
