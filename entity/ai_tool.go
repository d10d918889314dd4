package entity

type AiTool struct {
	Document
	Title    string `json:"title" gorm:"type:varchar(255);not null"`
	Category string `json:"category" gorm:"type:varchar(255);not null"`
	Link     string `json:"link" gorm:"type:varchar(1024);not null"`
	Media
}

func (AiTool) TableName() string {
	return "ai_tools"
}
