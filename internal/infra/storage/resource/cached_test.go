package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

type countingStore struct {
	resources map[int64]*domain.Resource
	gets      int
}

func (s *countingStore) Create(_ context.Context, r *domain.Resource) (*domain.Resource, error) {
	r.ID = int64(len(s.resources) + 1)
	s.resources[r.ID] = r.Clone()
	return r, nil
}

func (s *countingStore) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	s.gets++
	r, ok := s.resources[id]
	if !ok {
		return nil, ErrResourceNotFound
	}
	return r.Clone(), nil
}

func (s *countingStore) List(context.Context) ([]*domain.Resource, error) {
	out := make([]*domain.Resource, 0, len(s.resources))
	for _, r := range s.resources {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *countingStore) UpdateWorkingHours(_ context.Context, id int64, hours domain.WorkingHours) error {
	r, ok := s.resources[id]
	if !ok {
		return ErrResourceNotFound
	}
	r.WorkingHours = hours
	return nil
}

func TestCachedRepository_HitsStoreOnce(t *testing.T) {
	store := &countingStore{resources: map[int64]*domain.Resource{1: {ID: 1, Name: "Mira", WorkingHours: weekdayHours()}}}
	cached, err := NewCachedRepository(store, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := cached.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Mira", got.Name)
	}
	assert.Equal(t, 1, store.gets)
}

func TestCachedRepository_ReturnsCopies(t *testing.T) {
	store := &countingStore{resources: map[int64]*domain.Resource{1: {ID: 1, Name: "Mira", WorkingHours: weekdayHours()}}}
	cached, err := NewCachedRepository(store, 8)
	require.NoError(t, err)

	first, err := cached.GetByID(context.Background(), 1)
	require.NoError(t, err)
	first.Name = "mutated"
	*first.WorkingHours.Monday.BreakStart = "16:00"

	second, err := cached.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Mira", second.Name)
	assert.Equal(t, "14:00", second.WorkingHours.Monday.BreakStart.String())
}

func TestCachedRepository_UpdateInvalidates(t *testing.T) {
	store := &countingStore{resources: map[int64]*domain.Resource{1: {ID: 1, Name: "Mira", WorkingHours: weekdayHours()}}}
	cached, err := NewCachedRepository(store, 8)
	require.NoError(t, err)

	_, err = cached.GetByID(context.Background(), 1)
	require.NoError(t, err)

	var closed domain.WorkingHours
	require.NoError(t, cached.UpdateWorkingHours(context.Background(), 1, closed))

	got, err := cached.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, got.WorkingHours.ForDay(time.Monday).IsOpen)
	assert.Equal(t, 2, store.gets)
}

func TestCachedRepository_NotFoundNotCached(t *testing.T) {
	store := &countingStore{resources: map[int64]*domain.Resource{}}
	cached, err := NewCachedRepository(store, 0)
	require.NoError(t, err)

	_, err = cached.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrResourceNotFound)
	_, err = cached.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrResourceNotFound)
	assert.Equal(t, 2, store.gets)
}
