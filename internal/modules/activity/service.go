package activity

import (
	"context"
	"errors"
	"time"

	"pipecrm/internal/domain"

	"gorm.io/gorm"
)

// The timeline is append-only. Structural events (creation, moves, outcomes)
// are written by the deal module inside its transactions; this service only
// adds free-form notes and reads the feed back.
type Service struct {
	activities ActivityRepository
	deals      DealRepository
}

func NewService(activities ActivityRepository, deals DealRepository) *Service {
	return &Service{activities: activities, deals: deals}
}

func (s *Service) AddNote(ctx context.Context, dealID int64, text string) (*domain.LeadActivity, error) {
	if text == "" {
		return nil, ErrValidation
	}
	if err := s.checkDeal(ctx, dealID); err != nil {
		return nil, err
	}

	a := &domain.LeadActivity{
		DealID:      dealID,
		Type:        domain.ActivityNote,
		Description: text,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.activities.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListByDeal returns the deal's timeline, newest first.
func (s *Service) ListByDeal(ctx context.Context, dealID int64, q ListQuery) ([]domain.LeadActivity, int64, error) {
	if err := s.checkDeal(ctx, dealID); err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	return s.activities.ListByDeal(ctx, dealID, limit, q.Offset)
}

func (s *Service) checkDeal(ctx context.Context, dealID int64) error {
	if _, err := s.deals.GetByID(ctx, dealID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDealNotFound
		}
		return err
	}
	return nil
}
