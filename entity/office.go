package entity

import "gorm.io/datatypes"

type Office struct {
	Document
	Title       string                      `json:"title" gorm:"type:varchar(255);not null"`
	Location    datatypes.JSONSlice[string] `json:"location" gorm:"type:jsonb;not null"`
	LocationMap string                      `json:"locationMap" gorm:"type:text;not null"`
	Email       string                      `json:"email" gorm:"type:varchar(255);not null"`
	Instagram   string                      `json:"instagram" gorm:"type:varchar(1024);not null"`
	Linkedin    string                      `json:"linkedin" gorm:"type:varchar(1024);not null"`
	TeamNb      int                         `json:"teamNb" gorm:"not null"`
	Category    datatypes.JSONSlice[string] `json:"category" gorm:"type:jsonb;not null"`
	Status      datatypes.JSONSlice[string] `json:"status" gorm:"type:jsonb;not null"`
	Media
}
