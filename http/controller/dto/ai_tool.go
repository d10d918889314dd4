package dto

type CreateAiToolRequestDTO struct {
	Title    string `form:"title" binding:"required"`
	Category string `form:"category" binding:"required"`
	Link     string `form:"link" binding:"required"`
	Order    *int   `form:"order"`
}

type UpdateAiToolRequestDTO struct {
	Title    *string `form:"title"`
	Category *string `form:"category"`
	Link     *string `form:"link"`
	Order    *int    `form:"order"`
}
