package scheduling

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// Confirm подтверждает запись после оплаты депозита
func (e *Engine) Confirm(ctx context.Context, id uuid.UUID, req TransitionRequest) (*domain.Appointment, error) {
	return e.transition(ctx, "confirm", id, domain.StatusConfirmed, req, func(appt *domain.Appointment) {
		appt.DepositPaid = true
	})
}

// Start отмечает начало сеанса
func (e *Engine) Start(ctx context.Context, id uuid.UUID, req TransitionRequest) (*domain.Appointment, error) {
	return e.transition(ctx, "start", id, domain.StatusInProgress, req, nil)
}

// Complete завершает сеанс и освобождает слот
func (e *Engine) Complete(ctx context.Context, id uuid.UUID, req TransitionRequest) (*domain.Appointment, error) {
	return e.transition(ctx, "complete", id, domain.StatusCompleted, req, nil)
}

// MarkNoShow отмечает неявку клиента и освобождает слот
func (e *Engine) MarkNoShow(ctx context.Context, id uuid.UUID, req TransitionRequest) (*domain.Appointment, error) {
	return e.transition(ctx, "no_show", id, domain.StatusNoShow, req, nil)
}

// Transition переводит запись в статус to. Отмена выполняется только через Cancel.
func (e *Engine) Transition(ctx context.Context, id uuid.UUID, to domain.AppointmentStatus, req TransitionRequest) (*domain.Appointment, error) {
	switch to {
	case domain.StatusConfirmed:
		return e.Confirm(ctx, id, req)
	case domain.StatusInProgress:
		return e.Start(ctx, id, req)
	case domain.StatusCompleted:
		return e.Complete(ctx, id, req)
	case domain.StatusNoShow:
		return e.MarkNoShow(ctx, id, req)
	default:
		return nil, fmt.Errorf("%w: unsupported target status %q", ErrInvalidTransition, to)
	}
}

// checkTransition проверяет переход по автомату статусов
func checkTransition(appt *domain.Appointment, to domain.AppointmentStatus) error {
	switch {
	case appt.Status == domain.StatusCancelled && to == domain.StatusCancelled:
		return fmt.Errorf("%w: appointment %s", ErrAlreadyCancelled, appt.ID)
	case appt.IsTerminal():
		return fmt.Errorf("%w: appointment %s status=%s", ErrTerminalState, appt.ID, appt.Status)
	case !domain.CanTransition(appt.Status, to):
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, to)
	}
	return nil
}

// transition общая смена статуса: проверка автомата, запись в журнал,
// удаление интервала из индекса, если запись перестает занимать слот
func (e *Engine) transition(
	ctx context.Context,
	operation string,
	id uuid.UUID,
	to domain.AppointmentStatus,
	req TransitionRequest,
	mutate func(appt *domain.Appointment),
) (*domain.Appointment, error) {
	ctx, span := tracer.Start(ctx, "scheduling.Transition", trace.WithAttributes(
		attribute.String("appointment.id", id.String()),
		attribute.String("appointment.to_status", string(to)),
	))
	defer span.End()

	updated, from, err := e.applyTransition(ctx, id, to, req, mutate, nil)
	e.finish(span, operation, err)
	if err != nil {
		return nil, err
	}

	e.notify(ctx, domain.NewEvent(domain.EventForStatus(to), updated, e.timeProvider.Now(), map[string]any{
		"from_status": string(from),
		"to_status":   string(to),
	}))
	return updated, nil
}

// applyTransition выполняет смену статуса под блокировкой мастера.
// prepare вызывается внутри транзакции до сохранения и может отклонить переход.
func (e *Engine) applyTransition(
	ctx context.Context,
	id uuid.UUID,
	to domain.AppointmentStatus,
	req TransitionRequest,
	mutate func(appt *domain.Appointment),
	prepare func(appt *domain.Appointment) error,
) (*domain.Appointment, domain.AppointmentStatus, error) {
	// 1. Получаем запись и проверяем переход до блокировки
	current, err := e.getAppointment(ctx, "Transition", id)
	if err != nil {
		return nil, "", err
	}
	if err := checkTransition(current, to); err != nil {
		return nil, "", err
	}

	// 2. Блокируем мастера
	unlock, err := e.lockResource(ctx, current.ResourceID)
	if err != nil {
		return nil, "", err
	}
	defer unlock()

	now := e.timeProvider.Now()
	var (
		updated  *domain.Appointment
		previous *domain.Appointment
		removed  bool
	)

	// 3. Сохраняем статус, журнал и индекс вместе
	err = e.commit(ctx,
		func(txCtx context.Context) error {
			appt, err := e.appointments.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			if err := checkTransition(appt, to); err != nil {
				return err
			}
			if prepare != nil {
				if err := prepare(appt); err != nil {
					return err
				}
			}
			previous = appt.Clone()

			appt.Status = to
			if mutate != nil {
				mutate(appt)
			}
			saved, err := e.appointments.Update(txCtx, appt)
			if err != nil {
				return err
			}

			from := previous.Status
			if err := e.transitions.Append(txCtx, &domain.Transition{
				AppointmentID: id,
				From:          &from,
				To:            to,
				ActorID:       req.ActorID,
				Reason:        req.Reason,
				OccurredAt:    now.UTC(),
			}); err != nil {
				return err
			}
			updated = saved
			return nil
		},
		func() error {
			if !to.HoldsSlot() && previous.HoldsSlot() {
				removed = e.index.Remove(id)
			}
			return nil
		},
		func() {
			if !removed {
				return
			}
			removed = false
			if err := e.index.Insert(id, previous.ResourceID, previous.StartTime, previous.EndTime); err != nil {
				e.logger.Error("Transition: appointment=%s failed to restore index interval: %v", id, err)
			}
		},
	)
	if err != nil {
		e.logger.Error("Transition: appointment=%s %s -> %s failed: %v", id, current.Status, to, err)
		return nil, "", mapStoreError("Transition", err)
	}

	e.metrics.IncTransition(string(previous.Status), string(to))
	e.logger.Info("Transition: appointment=%s %s -> %s", id, previous.Status, to)
	return updated, previous.Status, nil
}
