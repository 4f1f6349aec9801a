package domain

import "time"

type StageType string

const (
	StageTypeNormal    StageType = "normal"
	StageTypeCompleted StageType = "completed"
	StageTypeLost      StageType = "lost"
)

// Pipeline is a named workflow container owning an ordered set of stages.
// Exactly one pipeline is the default; the rule is enforced by the pipeline
// service, not by a database constraint.
type Pipeline struct {
	ID             int64  `json:"id"`
	Name           string `json:"name" gorm:"not null"`
	Description    string `json:"description,omitempty" gorm:"type:text"`
	IsDefault      bool   `json:"is_default"`
	HasFixedStages bool   `json:"has_fixed_stages"`

	Stages []PipelineStage `json:"stages,omitempty" gorm:"foreignKey:PipelineID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Pipeline) TableName() string { return "pipelines" }

// PipelineStage is one ordered step within a pipeline. Order defines the
// kanban column position and must be unique within a pipeline; ties from
// legacy data fall back to insertion order.
type PipelineStage struct {
	ID         int64     `json:"id"`
	PipelineID int64     `json:"pipeline_id" gorm:"not null;uniqueIndex:idx_stage_order_per_pipeline"`
	Name       string    `json:"name" gorm:"not null"`
	Order      int       `json:"order" gorm:"column:sort_order;uniqueIndex:idx_stage_order_per_pipeline"`
	IsDefault  bool      `json:"is_default"`
	IsHidden   bool      `json:"is_hidden"`
	IsSystem   bool      `json:"is_system"`
	StageType  StageType `json:"stage_type" gorm:"default:normal"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PipelineStage) TableName() string { return "pipeline_stages" }

func (s *PipelineStage) IsTerminal() bool {
	return s.StageType == StageTypeCompleted || s.StageType == StageTypeLost
}
