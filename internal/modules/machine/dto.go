package machine

type CreateMachineRequest struct {
	BrandID      *int64 `json:"brand_id"`
	ModelID      *int64 `json:"model_id"`
	SerialNumber string `json:"serial_number"`
	Year         int    `json:"year" binding:"omitempty,gte=1900,lte=2100"`
	Notes        string `json:"notes"`
}

type UpdateMachineRequest struct {
	BrandID      *int64  `json:"brand_id"`
	ModelID      *int64  `json:"model_id"`
	SerialNumber *string `json:"serial_number"`
	Year         *int    `json:"year" binding:"omitempty,gte=1900,lte=2100"`
	Notes        *string `json:"notes"`
}
