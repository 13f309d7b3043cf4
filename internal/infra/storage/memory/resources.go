package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-InkBookingService/internal/infra/storage/resource"
)

// ResourceRepository хранит мастеров в памяти
type ResourceRepository struct {
	mu     sync.RWMutex
	items  map[int64]*domain.Resource
	nextID int64
}

// NewResourceRepository создает пустой репозиторий
func NewResourceRepository() *ResourceRepository {
	return &ResourceRepository{items: make(map[int64]*domain.Resource)}
}

func (r *ResourceRepository) Create(ctx context.Context, resource *domain.Resource) (*domain.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	resource.ID = r.nextID
	resource.CreatedAt = now
	resource.UpdatedAt = now
	r.items[resource.ID] = resource.Clone()

	id := resource.ID
	record(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.items, id)
	})

	return resource, nil
}

func (r *ResourceRepository) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resource, ok := r.items[id]
	if !ok {
		return nil, resourceRepo.ErrResourceNotFound
	}
	return resource.Clone(), nil
}

func (r *ResourceRepository) List(_ context.Context) ([]*domain.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Resource, 0, len(r.items))
	for _, resource := range r.items {
		out = append(out, resource.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ResourceRepository) UpdateWorkingHours(ctx context.Context, id int64, hours domain.WorkingHours) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.items[id]
	if !ok {
		return resourceRepo.ErrResourceNotFound
	}

	updated := prev.Clone()
	updated.WorkingHours = hours
	updated = updated.Clone()
	updated.UpdatedAt = time.Now().UTC()
	r.items[id] = updated

	record(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.items[id] = prev
	})

	return nil
}
