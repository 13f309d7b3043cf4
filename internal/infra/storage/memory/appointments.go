package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-InkBookingService/internal/infra/storage/appointment"
)

// AppointmentRepository хранит записи в памяти.
// Повторяет поведение postgres-репозитория, включая запрет пересечений активных записей.
type AppointmentRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*domain.Appointment
	now   func() time.Time
}

// NewAppointmentRepository создает пустой репозиторий
func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{
		items: make(map[uuid.UUID]*domain.Appointment),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[appt.ID]; exists {
		return nil, fmt.Errorf("%w: Create - %s", appointmentRepo.ErrDuplicate, appt.ID)
	}
	if err := r.checkOverlap(appt); err != nil {
		return nil, err
	}

	now := r.now()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	r.items[appt.ID] = appt.Clone()

	id := appt.ID
	record(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.items, id)
	})

	return appt, nil
}

func (r *AppointmentRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return appt.Clone(), nil
}

func (r *AppointmentRepository) Update(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.items[appt.ID]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	if err := r.checkOverlap(appt); err != nil {
		return nil, err
	}

	incoming := appt.Clone()
	updated := prev.Clone()
	updated.StartTime = incoming.StartTime.UTC()
	updated.EndTime = incoming.EndTime.UTC()
	updated.Status = incoming.Status
	updated.DepositPaid = incoming.DepositPaid
	updated.Notes = incoming.Notes
	updated.CancelledAt = incoming.CancelledAt
	updated.CancellationReasonCode = incoming.CancellationReasonCode
	updated.CancellationFee = incoming.CancellationFee
	updated.UpdatedAt = r.now()
	r.items[appt.ID] = updated

	record(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.items[prev.ID] = prev
	})

	appt.UpdatedAt = updated.UpdatedAt
	return appt, nil
}

func (r *AppointmentRepository) ListByResource(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Appointment, 0)
	for _, appt := range r.items {
		if appt.ResourceID != filter.ResourceID {
			continue
		}
		if filter.From != nil && appt.StartTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !appt.StartTime.Before(*filter.To) {
			continue
		}
		if filter.Status != nil {
			if appt.Status != *filter.Status {
				continue
			}
		} else if !filter.IncludeInactive && !appt.HoldsSlot() {
			continue
		}
		out = append(out, appt.Clone())
	}

	sortByStart(out)
	return out, nil
}

func (r *AppointmentRepository) ListByCustomer(_ context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Appointment, 0)
	for _, appt := range r.items {
		if appt.CustomerID != customerID {
			continue
		}
		if status != nil && appt.Status != *status {
			continue
		}
		out = append(out, appt.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out, nil
}

func (r *AppointmentRepository) ListHolding(_ context.Context) ([]*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Appointment, 0)
	for _, appt := range r.items {
		if appt.HoldsSlot() {
			out = append(out, appt.Clone())
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ResourceID != out[j].ResourceID {
			return out[i].ResourceID < out[j].ResourceID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

// checkOverlap аналог exclusion constraint. Вызывать под r.mu.
func (r *AppointmentRepository) checkOverlap(appt *domain.Appointment) error {
	if !appt.HoldsSlot() {
		return nil
	}
	for id, other := range r.items {
		if id == appt.ID || other.ResourceID != appt.ResourceID || !other.HoldsSlot() {
			continue
		}
		if other.Overlaps(appt.StartTime, appt.EndTime) {
			return fmt.Errorf("%w: overlaps %s", appointmentRepo.ErrSlotConflict, id)
		}
	}
	return nil
}

func sortByStart(appts []*domain.Appointment) {
	sort.Slice(appts, func(i, j int) bool {
		if appts[i].StartTime.Equal(appts[j].StartTime) {
			return appts[i].ID.String() < appts[j].ID.String()
		}
		return appts[i].StartTime.Before(appts[j].StartTime)
	})
}
