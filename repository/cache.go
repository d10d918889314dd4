package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-showcase-admin/infra"
)

// Cache is the subset of infra.RedisClient the repositories use. Get must
// return infra.ErrCacheMiss for an absent key.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Logger interface {
	WarningWithContextf(ctx context.Context, format string, args ...interface{})
}

// CachedRepository puts a read-through cache in front of a DocumentStore.
// Reads of a single record and of the full list are cached; every write
// drops both. A failing cache is logged and bypassed.
type CachedRepository[T any] struct {
	store    DocumentStore[T]
	cache    Cache
	keyspace string
	ttl      time.Duration
	logger   Logger
}

func NewCachedRepository[T any](store DocumentStore[T], cache Cache, keyspace string, ttl time.Duration, logger Logger) *CachedRepository[T] {
	return &CachedRepository[T]{
		store:    store,
		cache:    cache,
		keyspace: keyspace,
		ttl:      ttl,
		logger:   logger,
	}
}

func (r *CachedRepository[T]) recordKey(id uuid.UUID) string {
	return fmt.Sprintf("showcase:%s:%s", r.keyspace, id)
}

func (r *CachedRepository[T]) listKey() string {
	return fmt.Sprintf("showcase:%s:list", r.keyspace)
}

func (r *CachedRepository[T]) Create(ctx context.Context, doc *T) error {
	if err := r.store.Create(ctx, doc); err != nil {
		return err
	}
	r.invalidate(ctx, r.listKey())
	return nil
}

func (r *CachedRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	key := r.recordKey(id)

	var cached T
	if r.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	doc, err := r.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.fill(ctx, key, doc)
	return doc, nil
}

func (r *CachedRepository[T]) List(ctx context.Context) ([]T, error) {
	key := r.listKey()

	var cached []T
	if r.lookup(ctx, key, &cached) {
		return cached, nil
	}

	docs, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	r.fill(ctx, key, docs)
	return docs, nil
}

func (r *CachedRepository[T]) Update(ctx context.Context, id uuid.UUID, doc *T) error {
	err := r.store.Update(ctx, id, doc)
	r.invalidate(ctx, r.recordKey(id), r.listKey())
	return err
}

func (r *CachedRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.store.Delete(ctx, id)
	r.invalidate(ctx, r.recordKey(id), r.listKey())
	return err
}

func (r *CachedRepository[T]) lookup(ctx context.Context, key string, dest interface{}) bool {
	err := r.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, infra.ErrCacheMiss) {
		r.logger.WarningWithContextf(ctx, "[Cache] Failed to read %s: %v", key, err)
	}
	return false
}

func (r *CachedRepository[T]) fill(ctx context.Context, key string, value interface{}) {
	if err := r.cache.Set(ctx, key, value, r.ttl); err != nil {
		r.logger.WarningWithContextf(ctx, "[Cache] Failed to write %s: %v", key, err)
	}
}

func (r *CachedRepository[T]) invalidate(ctx context.Context, keys ...string) {
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.WarningWithContextf(ctx, "[Cache] Failed to invalidate %v: %v", keys, err)
	}
}
