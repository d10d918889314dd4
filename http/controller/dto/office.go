package dto

type CreateOfficeRequestDTO struct {
	Title       string   `form:"title" binding:"required"`
	Location    []string `form:"location" binding:"required,min=1"`
	LocationMap string   `form:"locationMap" binding:"required"`
	Email       string   `form:"email" binding:"required"`
	Instagram   string   `form:"instagram" binding:"required"`
	Linkedin    string   `form:"linkedin" binding:"required"`
	TeamNb      *int     `form:"teamNb" binding:"required"`
	Category    []string `form:"category" binding:"required,min=1"`
	Status      []string `form:"status" binding:"required,min=1"`
	Order       *int     `form:"order"`
}

// UpdateOfficeRequestDTO always carries the list fields; the dashboard
// resubmits them on every edit.
type UpdateOfficeRequestDTO struct {
	Title       *string  `form:"title"`
	Location    []string `form:"location" binding:"required,min=1"`
	LocationMap *string  `form:"locationMap"`
	Email       *string  `form:"email"`
	Instagram   *string  `form:"instagram"`
	Linkedin    *string  `form:"linkedin"`
	TeamNb      *int     `form:"teamNb"`
	Category    []string `form:"category" binding:"required,min=1"`
	Status      []string `form:"status" binding:"required,min=1"`
	Order       *int     `form:"order"`
}
