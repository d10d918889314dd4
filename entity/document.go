package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefaultOrder is the position of a record created without an explicit order.
const DefaultOrder = 999

// Document holds the columns every showcase record shares. The JSON names
// follow what the dashboard already reads.
type Document struct {
	ID        uuid.UUID `json:"_id" gorm:"type:uuid;primaryKey"`
	Order     int       `json:"order" gorm:"column:sort_order;not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;autoCreateTime;index"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (d *Document) GetID() uuid.UUID {
	return d.ID
}

func (d *Document) SetID(id uuid.UUID) {
	d.ID = id
}

// Media is the image part of a record: a single thumbnail and an
// append-only gallery.
type Media struct {
	ThumbnailURL string                      `json:"thumbnailUrl" gorm:"type:varchar(1024);not null"`
	Gallery      datatypes.JSONSlice[string] `json:"gallery" gorm:"type:jsonb"`
}

func (m *Media) GetMedia() *Media {
	return m
}

// Record is implemented by every showcase entity.
type Record interface {
	GetID() uuid.UUID
	SetID(id uuid.UUID)
	GetMedia() *Media
}

// BlockHolder is implemented by records that carry content blocks.
type BlockHolder interface {
	GetContentBlocks() []ContentBlock
	SetContentBlocks(blocks []ContentBlock)
}
