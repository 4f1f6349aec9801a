package domain

import "time"

// QuoteItem is one priced line of a deal's quotation. Items created on the
// same UTC calendar day are displayed as one logical quotation; the grouping
// is a view convenience, not a stored relationship.
type QuoteItem struct {
	ID          int64     `json:"id"`
	DealID      int64     `json:"deal_id" gorm:"index;not null"`
	Description string    `json:"description" gorm:"not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	UnitPrice   float64   `json:"unit_price" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (QuoteItem) TableName() string { return "quote_items" }

// Total is the line's contribution to the deal's aggregate value.
func (q *QuoteItem) Total() float64 {
	return float64(q.Quantity) * q.UnitPrice
}

// Quotation is the day-grouped view over a deal's quote items.
type Quotation struct {
	Date  string      `json:"date"` // YYYY-MM-DD, UTC
	Items []QuoteItem `json:"items"`
	Total float64     `json:"total"`
}
