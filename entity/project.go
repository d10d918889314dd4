package entity

import "gorm.io/datatypes"

// ContentBlock is the persisted form of a project content block. Image
// blocks keep their URL in Content.
type ContentBlock struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type Project struct {
	Document
	Title         string                            `json:"title" gorm:"type:varchar(255);not null"`
	Student       string                            `json:"student" gorm:"type:varchar(255);not null"`
	Area          string                            `json:"area" gorm:"type:varchar(255);not null"`
	Description   string                            `json:"description" gorm:"type:text;not null"`
	Category      datatypes.JSONSlice[string]       `json:"category" gorm:"type:jsonb;not null"`
	Concept       datatypes.JSONSlice[string]       `json:"concept" gorm:"type:jsonb;not null"`
	Type          datatypes.JSONSlice[string]       `json:"type" gorm:"type:jsonb;not null"`
	Year          datatypes.JSONSlice[string]       `json:"year" gorm:"type:jsonb;not null"`
	Location      datatypes.JSONSlice[string]       `json:"location" gorm:"type:jsonb;not null"`
	University    datatypes.JSONSlice[string]       `json:"university" gorm:"type:jsonb;not null"`
	ContentBlocks datatypes.JSONSlice[ContentBlock] `json:"contentBlocks" gorm:"type:jsonb"`
	Media
}

func (p *Project) GetContentBlocks() []ContentBlock {
	return p.ContentBlocks
}

func (p *Project) SetContentBlocks(blocks []ContentBlock) {
	p.ContentBlocks = blocks
}
