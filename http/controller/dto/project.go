package dto

type CreateProjectRequestDTO struct {
	Title       string   `form:"title" binding:"required"`
	Student     string   `form:"student" binding:"required"`
	Area        string   `form:"area" binding:"required"`
	Description string   `form:"description" binding:"required"`
	Category    []string `form:"category" binding:"required,min=1"`
	Concept     []string `form:"concept" binding:"required,min=1"`
	Type        []string `form:"type" binding:"required,min=1"`
	Year        []string `form:"year" binding:"required,min=1"`
	Location    []string `form:"location" binding:"required,min=1"`
	University  []string `form:"university" binding:"required,min=1"`
	Order       *int     `form:"order"`
}

type UpdateProjectRequestDTO struct {
	Title       *string  `form:"title"`
	Student     *string  `form:"student"`
	Area        *string  `form:"area"`
	Description *string  `form:"description"`
	Category    []string `form:"category" binding:"required,min=1"`
	Concept     []string `form:"concept" binding:"required,min=1"`
	Type        []string `form:"type" binding:"required,min=1"`
	Year        []string `form:"year" binding:"required,min=1"`
	Location    []string `form:"location" binding:"required,min=1"`
	University  []string `form:"university" binding:"required,min=1"`
	Order       *int     `form:"order"`
}

// ContentBlockDTO is one entry of the contentBlocks form field, which holds
// a JSON array. A new image block points at a blockImages upload through
// FileIndex; a kept image block repeats its current URL in Content.
type ContentBlockDTO struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	FileIndex *int   `json:"fileIndex,omitempty"`
}
