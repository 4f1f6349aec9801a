package quote

import (
	"context"
	"errors"
	"time"

	"pipecrm/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	items QuoteItemRepository
	deals DealRepository
	board BoardInvalidator
}

func NewService(items QuoteItemRepository, deals DealRepository, board BoardInvalidator) *Service {
	return &Service{items: items, deals: deals, board: board}
}

// AddItem appends a priced line to the deal's quotation. The deal's cached
// quote total moves in the same transaction as the insert.
func (s *Service) AddItem(ctx context.Context, dealID int64, req AddItemRequest) (*domain.QuoteItem, error) {
	if req.Description == "" || req.Quantity <= 0 || req.UnitPrice < 0 {
		return nil, ErrValidation
	}

	d, err := s.getDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}

	item := &domain.QuoteItem{
		DealID:      dealID,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.items.InsertWithDelta(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}

	s.invalidate(ctx, d.PipelineID)
	return item, nil
}

// UpdateItem rewrites a line. The cached total absorbs the difference between
// the old and new contribution.
func (s *Service) UpdateItem(ctx context.Context, dealID, itemID int64, req UpdateItemRequest) (*domain.QuoteItem, error) {
	if req.Description == "" || req.Quantity <= 0 || req.UnitPrice < 0 {
		return nil, ErrValidation
	}

	d, err := s.getDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(ctx, dealID, itemID); err != nil {
		return nil, err
	}

	item, err := s.items.UpdateWithDelta(ctx, itemID, req.Description, req.Quantity, req.UnitPrice)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	s.invalidate(ctx, d.PipelineID)
	return item, nil
}

// RemoveItem deletes a line and subtracts its contribution from the cached
// total.
func (s *Service) RemoveItem(ctx context.Context, dealID, itemID int64) error {
	d, err := s.getDeal(ctx, dealID)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(ctx, dealID, itemID); err != nil {
		return err
	}

	if _, err := s.items.DeleteWithDelta(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}

	s.invalidate(ctx, d.PipelineID)
	return nil
}

func (s *Service) ListItems(ctx context.Context, dealID int64) ([]domain.QuoteItem, error) {
	if _, err := s.getDeal(ctx, dealID); err != nil {
		return nil, err
	}
	return s.items.ListByDeal(ctx, dealID)
}

// ListQuotations groups the deal's items by UTC calendar day, oldest day
// first. The grouping is a presentation rule; nothing about it is stored.
func (s *Service) ListQuotations(ctx context.Context, dealID int64) ([]domain.Quotation, error) {
	if _, err := s.getDeal(ctx, dealID); err != nil {
		return nil, err
	}

	items, err := s.items.ListByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}

	quotations := []domain.Quotation{}
	index := map[string]int{}
	for _, item := range items {
		day := item.CreatedAt.UTC().Format("2006-01-02")
		i, ok := index[day]
		if !ok {
			i = len(quotations)
			index[day] = i
			quotations = append(quotations, domain.Quotation{Date: day})
		}
		quotations[i].Items = append(quotations[i].Items, item)
		quotations[i].Total += item.Total()
	}
	return quotations, nil
}

// SelectQuotation locks the deal to the total of one day's quotation. Both
// cached totals are overridden: the selected day becomes the committed value
// and replaces the running quote sum.
func (s *Service) SelectQuotation(ctx context.Context, dealID int64, req SelectQuotationRequest) (*domain.Deal, error) {
	day, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, ErrValidation
	}

	if _, err := s.getDeal(ctx, dealID); err != nil {
		return nil, err
	}

	total, err := s.items.SumByDealAndDay(ctx, dealID, day)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrEmptyQuote
	}

	if err := s.deals.SetValue(ctx, dealID, total, total); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}

	d, err := s.getDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, d.PipelineID)
	return d, nil
}

// RecomputeDealValue resums every item from scratch and overwrites the cached
// total, reconciling any drift the incremental path accumulated.
func (s *Service) RecomputeDealValue(ctx context.Context, dealID int64) (float64, error) {
	d, err := s.getDeal(ctx, dealID)
	if err != nil {
		return 0, err
	}

	total, err := s.items.SumByDeal(ctx, dealID)
	if err != nil {
		return 0, err
	}
	if err := s.items.SetQuoteValue(ctx, dealID, total); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrDealNotFound
		}
		return 0, err
	}

	s.invalidate(ctx, d.PipelineID)
	return total, nil
}

func (s *Service) getDeal(ctx context.Context, dealID int64) (*domain.Deal, error) {
	d, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *Service) checkOwnership(ctx context.Context, dealID, itemID int64) error {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	if item.DealID != dealID {
		return ErrItemNotInDeal
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, pipelineID int64) {
	if s.board != nil {
		s.board.InvalidatePipeline(ctx, pipelineID)
	}
}
