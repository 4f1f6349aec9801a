package domain

import "time"

// DealStatus is the operational axis of a deal, independent of the sale
// outcome (a deal can be "waiting" while still in negotiation).
type DealStatus string

const (
	DealInProgress DealStatus = "in_progress"
	DealWaiting    DealStatus = "waiting"
	DealCompleted  DealStatus = "completed"
	DealCanceled   DealStatus = "canceled"
)

// SaleStatus is the terminal-outcome axis.
type SaleStatus string

const (
	SaleNegotiation SaleStatus = "negotiation"
	SaleWon         SaleStatus = "won"
	SaleLost        SaleStatus = "lost"
)

// SalePerformance classifies a won deal against its quoted value.
type SalePerformance string

const (
	PerformanceBelowQuote SalePerformance = "below_quote"
	PerformanceAtQuote    SalePerformance = "at_quote"
	PerformanceAboveQuote SalePerformance = "above_quote"
)

// Deal is an opportunity moving through a pipeline. Invariant: StageID always
// references a stage belonging to PipelineID; storage does not guarantee
// this, the transition engine does.
type Deal struct {
	ID         int64  `json:"id"`
	Name       string `json:"name" gorm:"not null"`
	LeadID     int64  `json:"lead_id" gorm:"index;not null"`
	PipelineID int64  `json:"pipeline_id" gorm:"index;not null"`
	StageID    int64  `json:"stage_id" gorm:"index;not null"`

	// Manual position within the stage column.
	Order int `json:"order" gorm:"column:sort_order"`

	// Cached monetary totals. QuoteValue tracks the running sum of quote
	// items; Value is locked to the selected quotation when the deal is won.
	Value      float64 `json:"value"`
	QuoteValue float64 `json:"quote_value"`

	Status          DealStatus      `json:"status" gorm:"default:in_progress"`
	SaleStatus      SaleStatus      `json:"sale_status" gorm:"default:negotiation"`
	SalePerformance SalePerformance `json:"sale_performance,omitempty"`
	LostReasonID    *int64          `json:"lost_reason_id,omitempty"`
	LostNotes       string          `json:"lost_notes,omitempty" gorm:"type:text"`

	Notes string `json:"notes,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Lead *Lead `json:"lead,omitempty" gorm:"foreignKey:LeadID"`
}

func (Deal) TableName() string { return "deals" }

func (d *Deal) IsClosed() bool {
	return d.SaleStatus == SaleWon || d.SaleStatus == SaleLost
}

// StageHistory is an append-only record of a deal's occupancy of a stage.
// LeftAt stays nil until the deal moves again.
type StageHistory struct {
	ID         int64      `json:"id"`
	DealID     int64      `json:"deal_id" gorm:"index;not null"`
	StageID    int64      `json:"stage_id" gorm:"index;not null"`
	PipelineID int64      `json:"pipeline_id" gorm:"index;not null"`
	EnteredAt  time.Time  `json:"entered_at"`
	LeftAt     *time.Time `json:"left_at,omitempty"`
}

func (StageHistory) TableName() string { return "stage_histories" }
