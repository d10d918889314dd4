package entity

type Competition struct {
	Document
	Title       string `json:"title" gorm:"type:varchar(255);not null"`
	Category    string `json:"category" gorm:"type:varchar(255);not null"`
	Prize       string `json:"prize" gorm:"type:varchar(255);not null"`
	Deadline    string `json:"deadline" gorm:"type:varchar(255);not null"` // Free text, e.g. "March 2025"
	Description string `json:"description" gorm:"type:text;not null"`
	Link        string `json:"link" gorm:"type:varchar(1024);not null"`
	Side        string `json:"side" gorm:"type:varchar(255);not null"`
	Media
}
