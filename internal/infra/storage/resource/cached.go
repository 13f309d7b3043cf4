package resource

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

const DefaultCacheSize = 256

// CachedRepository кеширует мастеров по ID поверх Store.
// Расписание меняется только через UpdateWorkingHours, который сбрасывает запись.
type CachedRepository struct {
	store Store
	cache *lru.Cache[int64, *domain.Resource]
}

// NewCachedRepository создает кеширующую обертку
func NewCachedRepository(store Store, size int) (*CachedRepository, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[int64, *domain.Resource](size)
	if err != nil {
		return nil, fmt.Errorf("resource.cache: init: %w", err)
	}
	return &CachedRepository{store: store, cache: cache}, nil
}

// Create создает мастера и кладет его в кеш
func (c *CachedRepository) Create(ctx context.Context, resource *domain.Resource) (*domain.Resource, error) {
	created, err := c.store.Create(ctx, resource)
	if err != nil {
		return nil, err
	}
	c.cache.Add(created.ID, created.Clone())
	return created, nil
}

// GetByID возвращает копию из кеша или читает из хранилища
func (c *CachedRepository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	if cached, ok := c.cache.Get(id); ok {
		return cached.Clone(), nil
	}

	resource, err := c.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Add(id, resource.Clone())
	return resource, nil
}

// List всегда читает из хранилища
func (c *CachedRepository) List(ctx context.Context) ([]*domain.Resource, error) {
	return c.store.List(ctx)
}

// UpdateWorkingHours обновляет расписание и сбрасывает запись в кеше
func (c *CachedRepository) UpdateWorkingHours(ctx context.Context, id int64, hours domain.WorkingHours) error {
	c.cache.Remove(id)
	if err := c.store.UpdateWorkingHours(ctx, id, hours); err != nil {
		return err
	}
	c.cache.Remove(id)
	return nil
}

// Purge очищает кеш
func (c *CachedRepository) Purge() {
	c.cache.Purge()
}
