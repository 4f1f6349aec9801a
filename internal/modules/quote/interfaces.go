package quote

import (
	"context"
	"time"

	"pipecrm/internal/domain"
)

// QuoteItemRepository pairs each item write with the matching adjustment of
// the deal's cached quote total.
type QuoteItemRepository interface {
	InsertWithDelta(ctx context.Context, item *domain.QuoteItem) error
	UpdateWithDelta(ctx context.Context, id int64, description string, quantity int, unitPrice float64) (*domain.QuoteItem, error)
	DeleteWithDelta(ctx context.Context, id int64) (*domain.QuoteItem, error)
	GetByID(ctx context.Context, id int64) (*domain.QuoteItem, error)
	ListByDeal(ctx context.Context, dealID int64) ([]domain.QuoteItem, error)
	SumByDeal(ctx context.Context, dealID int64) (float64, error)
	SumByDealAndDay(ctx context.Context, dealID int64, day time.Time) (float64, error)
	SetQuoteValue(ctx context.Context, dealID int64, total float64) error
}

type DealRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Deal, error)
	SetValue(ctx context.Context, id int64, value, quoteValue float64) error
}

type BoardInvalidator interface {
	InvalidatePipeline(ctx context.Context, pipelineID int64)
}
