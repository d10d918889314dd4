package dto

type CreateCompetitionRequestDTO struct {
	Title       string `form:"title" binding:"required"`
	Category    string `form:"category" binding:"required"`
	Prize       string `form:"prize" binding:"required"`
	Deadline    string `form:"deadline" binding:"required"`
	Description string `form:"description" binding:"required"`
	Link        string `form:"link" binding:"required"`
	Side        string `form:"side" binding:"required"`
	Order       *int   `form:"order"`
}

type UpdateCompetitionRequestDTO struct {
	Title       *string `form:"title"`
	Category    *string `form:"category"`
	Prize       *string `form:"prize"`
	Deadline    *string `form:"deadline"`
	Description *string `form:"description"`
	Link        *string `form:"link"`
	Side        *string `form:"side"`
	Order       *int    `form:"order"`
}
