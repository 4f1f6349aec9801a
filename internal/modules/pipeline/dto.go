package pipeline

type StageInput struct {
	Name      string `json:"name" binding:"required"`
	Order     int    `json:"order" binding:"required,gt=0"`
	StageType string `json:"stage_type" binding:"omitempty,oneof=normal completed lost"`
	IsDefault bool   `json:"is_default"`
	IsHidden  bool   `json:"is_hidden"`
}

type CreatePipelineRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Stages      []StageInput `json:"stages" binding:"omitempty,dive"`
}

type UpdatePipelineRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CreateStageRequest struct {
	Name      string `json:"name" binding:"required"`
	Order     int    `json:"order" binding:"required,gt=0"`
	StageType string `json:"stage_type" binding:"omitempty,oneof=normal completed lost"`
	IsDefault bool   `json:"is_default"`
	IsHidden  bool   `json:"is_hidden"`
}

type UpdateStageRequest struct {
	Name      *string `json:"name"`
	Order     *int    `json:"order" binding:"omitempty,gt=0"`
	StageType *string `json:"stage_type" binding:"omitempty,oneof=normal completed lost"`
	IsDefault *bool   `json:"is_default"`
	IsHidden  *bool   `json:"is_hidden"`
}
