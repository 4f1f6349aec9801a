package catalog

type CreateEntryRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateModelRequest struct {
	Name string `json:"name" binding:"required"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
