package dto

type DeleteGalleryImageRequestDTO struct {
	ImageURL string `json:"imageUrl" binding:"required"`
}
