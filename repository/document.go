package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// DocumentStore is the CRUD surface the controllers use for one entity.
type DocumentStore[T any] interface {
	Create(ctx context.Context, doc *T) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, id uuid.UUID, doc *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DocumentRepository stores one entity type in its own Postgres table.
type DocumentRepository[T any] struct {
	db *gorm.DB
}

func NewDocumentRepository[T any](db *gorm.DB) *DocumentRepository[T] {
	return &DocumentRepository[T]{db: db}
}

func (r *DocumentRepository[T]) Create(ctx context.Context, doc *T) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *DocumentRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var doc T
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// List returns every record, lowest order first and newest first within
// the same order.
func (r *DocumentRepository[T]) List(ctx context.Context) ([]T, error) {
	var docs []T
	err := r.db.WithContext(ctx).
		Order("sort_order ASC").
		Order("created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Update overwrites every column of the record with the given id, zero
// values included.
func (r *DocumentRepository[T]) Update(ctx context.Context, id uuid.UUID, doc *T) error {
	result := r.db.WithContext(ctx).Model(doc).Where("id = ?", id).Select("*").Omit("id", "created_at").Updates(doc)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DocumentRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
