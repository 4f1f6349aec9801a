package deal

type CreateDealRequest struct {
	Name       string `json:"name" binding:"required"`
	LeadID     int64  `json:"lead_id" binding:"required"`
	PipelineID int64  `json:"pipeline_id"`
	Notes      string `json:"notes"`
}

type UpdateDealRequest struct {
	Name   *string `json:"name"`
	Notes  *string `json:"notes"`
	Status *string `json:"status" binding:"omitempty,oneof=in_progress waiting completed canceled"`
	Order  *int    `json:"order"`
}

type MoveRequest struct {
	StageID int64 `json:"stage_id" binding:"required"`
}

type SwitchPipelineRequest struct {
	PipelineID int64 `json:"pipeline_id" binding:"required"`
	StageID    int64 `json:"stage_id"`
}

// OutcomeRequest carries the terminal outcome and its metadata. The binding
// layer enforces what the engine itself leaves open: performance for won,
// loss reason for lost.
type OutcomeRequest struct {
	Outcome         string `json:"outcome" binding:"required,oneof=won lost"`
	SalePerformance string `json:"sale_performance" binding:"required_if=Outcome won,omitempty,oneof=below_quote at_quote above_quote"`
	LostReasonID    int64  `json:"lost_reason_id" binding:"required_if=Outcome lost"`
	LostNotes       string `json:"lost_notes"`
}
