package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// TransitionRepository журнал смен статусов в памяти
type TransitionRepository struct {
	mu     sync.RWMutex
	items  map[uuid.UUID][]domain.Transition
	nextID int64
}

// NewTransitionRepository создает пустой журнал
func NewTransitionRepository() *TransitionRepository {
	return &TransitionRepository{items: make(map[uuid.UUID][]domain.Transition)}
}

func (r *TransitionRepository) Append(ctx context.Context, t *domain.Transition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	t.ID = r.nextID
	r.items[t.AppointmentID] = append(r.items[t.AppointmentID], *t)

	appointmentID, id := t.AppointmentID, t.ID
	record(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		list := r.items[appointmentID]
		for i := range list {
			if list[i].ID == id {
				r.items[appointmentID] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(r.items[appointmentID]) == 0 {
			delete(r.items, appointmentID)
		}
	})

	return nil
}

func (r *TransitionRepository) ListByAppointment(_ context.Context, appointmentID uuid.UUID) ([]*domain.Transition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.items[appointmentID]
	out := make([]*domain.Transition, 0, len(list))
	for i := range list {
		t := list[i]
		out = append(out, &t)
	}
	return out, nil
}
