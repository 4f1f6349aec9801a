package repository

import (
	"context"
	"time"

	"pipecrm/internal/domain"

	"gorm.io/gorm"
)

type QuoteItemRepository struct {
	db *gorm.DB
}

func NewQuoteItemRepository(db *gorm.DB) *QuoteItemRepository {
	return &QuoteItemRepository{db: db}
}

// applyQuoteDelta shifts the deal's cached quote_value, floored at zero. The
// floor defends against drift from concurrent incremental writers; the full
// recompute is the ground truth.
func applyQuoteDelta(tx *gorm.DB, dealID int64, delta float64) error {
	res := tx.Model(&dealModel{}).Where("id = ?", dealID).Update(
		"quote_value",
		gorm.Expr("CASE WHEN quote_value + ? < 0 THEN 0 ELSE quote_value + ? END", delta, delta),
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// InsertWithDelta persists the item and increments the deal's cached total in
// one transaction.
func (r *QuoteItemRepository) InsertWithDelta(ctx context.Context, item *domain.QuoteItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return applyQuoteDelta(tx, item.DealID, item.Total())
	})
}

// UpdateWithDelta rewrites the item and applies the delta between its old and
// new contribution to the deal's cached total.
func (r *QuoteItemRepository) UpdateWithDelta(ctx context.Context, id int64, description string, quantity int, unitPrice float64) (*domain.QuoteItem, error) {
	var out domain.QuoteItem

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item domain.QuoteItem
		if err := lockForUpdate(tx).First(&item, id).Error; err != nil {
			return err
		}

		oldTotal := item.Total()
		item.Description = description
		item.Quantity = quantity
		item.UnitPrice = unitPrice

		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		if err := applyQuoteDelta(tx, item.DealID, item.Total()-oldTotal); err != nil {
			return err
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteWithDelta removes the item and subtracts its contribution from the
// deal's cached total. Returns the removed item.
func (r *QuoteItemRepository) DeleteWithDelta(ctx context.Context, id int64) (*domain.QuoteItem, error) {
	var out domain.QuoteItem

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item domain.QuoteItem
		if err := lockForUpdate(tx).First(&item, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.QuoteItem{}, id).Error; err != nil {
			return err
		}
		if err := applyQuoteDelta(tx, item.DealID, -item.Total()); err != nil {
			return err
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *QuoteItemRepository) GetByID(ctx context.Context, id int64) (*domain.QuoteItem, error) {
	var item domain.QuoteItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *QuoteItemRepository) ListByDeal(ctx context.Context, dealID int64) ([]domain.QuoteItem, error) {
	var items []domain.QuoteItem
	err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// SumByDeal resums all items from scratch. An empty item set sums to zero.
func (r *QuoteItemRepository) SumByDeal(ctx context.Context, dealID int64) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.QuoteItem{}).
		Select("COALESCE(SUM(quantity * unit_price), 0)").
		Where("deal_id = ?", dealID).
		Scan(&total).Error
	return total, err
}

// SumByDealAndDay sums the items of one day-grouped quotation (UTC day).
func (r *QuoteItemRepository) SumByDealAndDay(ctx context.Context, dealID int64, day time.Time) (float64, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	var total float64
	err := r.db.WithContext(ctx).Model(&domain.QuoteItem{}).
		Select("COALESCE(SUM(quantity * unit_price), 0)").
		Where("deal_id = ? AND created_at >= ? AND created_at < ?", dealID, from, to).
		Scan(&total).Error
	return total, err
}

// SetQuoteValue writes the cached total directly, used by the reconciling
// full recompute.
func (r *QuoteItemRepository) SetQuoteValue(ctx context.Context, dealID int64, total float64) error {
	res := r.db.WithContext(ctx).Model(&dealModel{}).Where("id = ?", dealID).Update("quote_value", total)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
