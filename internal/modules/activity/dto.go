package activity

type AddNoteRequest struct {
	Text string `json:"text" binding:"required"`
}

type ListQuery struct {
	Limit  int `form:"limit,default=50" binding:"omitempty,gt=0,lte=200"`
	Offset int `form:"offset" binding:"omitempty,gte=0"`
}
