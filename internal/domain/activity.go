package domain

import "time"

type ActivityType string

const (
	ActivityDealCreated    ActivityType = "deal_created"
	ActivityStageChange    ActivityType = "stage_change"
	ActivityPipelineChange ActivityType = "pipeline_change"
	ActivitySaleWon        ActivityType = "sale_won"
	ActivitySaleLost       ActivityType = "sale_lost"
	ActivityDealReopened   ActivityType = "deal_reopened"
	ActivityNote           ActivityType = "note"
)

// LeadActivity is one immutable entry of a deal's timeline. Descriptions use
// stage/pipeline names rather than ids because they are surfaced directly to
// end users.
type LeadActivity struct {
	ID          int64        `json:"id"`
	DealID      int64        `json:"deal_id" gorm:"index;not null"`
	Type        ActivityType `json:"type" gorm:"not null"`
	Description string       `json:"description" gorm:"type:text;not null"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (LeadActivity) TableName() string { return "lead_activities" }
