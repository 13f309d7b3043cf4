package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-InkBookingService/internal/infra/storage/resource"
)

// Get возвращает запись по ID
func (e *Engine) Get(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	return e.getAppointment(ctx, "Get", id)
}

// ListByResource возвращает записи мастера по фильтру
func (e *Engine) ListByResource(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	if filter.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resource_id must be positive", ErrInvalidInput)
	}
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return nil, fmt.Errorf("%w: 'to' must be after 'from'", ErrInvalidInterval)
	}

	if _, err := e.resources.GetByID(ctx, filter.ResourceID); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, fmt.Errorf("%w: resource=%d", ErrResourceNotFound, filter.ResourceID)
		}
		return nil, fmt.Errorf("%w: ListByResource - resource=%d: %v", ErrInternal, filter.ResourceID, err)
	}

	appointments, err := e.appointments.ListByResource(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - resource=%d: %v", ErrInternal, filter.ResourceID, err)
	}
	return appointments, nil
}

// History возвращает журнал смен статусов записи
func (e *Engine) History(ctx context.Context, id uuid.UUID) ([]*domain.Transition, error) {
	if _, err := e.getAppointment(ctx, "History", id); err != nil {
		return nil, err
	}

	history, err := e.transitions.ListByAppointment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: History - appointment=%s: %v", ErrInternal, id, err)
	}
	return history, nil
}
