package scheduling

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/internal/service/pricing"
)

const reasonRescheduled = "rescheduled"

// Reschedule переносит запись на новый интервал того же мастера.
// Цена не пересчитывается: она относится к татуировке, а не ко времени.
func (e *Engine) Reschedule(ctx context.Context, id uuid.UUID, req RescheduleRequest) (*domain.Appointment, error) {
	ctx, span := tracer.Start(ctx, "scheduling.Reschedule", trace.WithAttributes(
		attribute.String("appointment.id", id.String()),
	))
	defer span.End()

	appt, previous, err := e.reschedule(ctx, id, req)
	e.finish(span, "reschedule", err)
	if err != nil {
		return nil, err
	}

	e.notify(ctx, domain.NewEvent(domain.EventAppointmentRescheduled, appt, e.timeProvider.Now(), map[string]any{
		"previous_start_time": previous.StartTime,
		"previous_end_time":   previous.EndTime,
		"start_time":          appt.StartTime,
		"end_time":            appt.EndTime,
	}))
	return appt, nil
}

func (e *Engine) reschedule(ctx context.Context, id uuid.UUID, req RescheduleRequest) (*domain.Appointment, *domain.Appointment, error) {
	now := e.timeProvider.Now()

	// 1. Проверяем новый интервал
	if err := e.checkInterval(req.Start, req.End, now); err != nil {
		return nil, nil, err
	}

	// 2. Получаем запись, мастера и проверяем политику
	current, err := e.getAppointment(ctx, "Reschedule", id)
	if err != nil {
		return nil, nil, err
	}
	if err := checkReschedulable(current); err != nil {
		return nil, nil, err
	}

	outcome, err := e.evaluatePolicy(current, now)
	if err != nil {
		return nil, nil, err
	}
	if !outcome.AllowReschedule {
		return nil, nil, fmt.Errorf("%w: %.1f hours of notice", ErrRescheduleNotAllowed, outcome.NoticeHours)
	}

	resource, err := e.loadResource(ctx, current.ResourceID)
	if err != nil {
		return nil, nil, err
	}
	if err := checkWorkingHours(resource, req.Start, req.End); err != nil {
		return nil, nil, err
	}

	// 3. Профиль должен по-прежнему существовать
	if _, err := e.estimate(pricing.EstimateRequest{
		Size:            current.Size,
		Placement:       current.Placement,
		ComplexityLevel: current.ComplexityLevel,
	}); err != nil {
		return nil, nil, err
	}

	// 4. Под блокировкой мастера проверяем пересечения и переносим
	unlock, err := e.lockResource(ctx, current.ResourceID)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	if conflictID, ok := e.index.HasConflict(current.ResourceID, req.Start, req.End, &id); ok {
		e.logger.Warn("Reschedule: appointment=%s new slot conflicts with appointment=%s", id, conflictID)
		return nil, nil, &SlotConflictError{AppointmentID: conflictID}
	}

	var (
		updated  *domain.Appointment
		previous *domain.Appointment
	)
	err = e.commit(ctx,
		func(txCtx context.Context) error {
			appt, err := e.appointments.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			if err := checkReschedulable(appt); err != nil {
				return err
			}
			previous = appt.Clone()

			appt.StartTime = req.Start.UTC()
			appt.EndTime = req.End.UTC()
			saved, err := e.appointments.Update(txCtx, appt)
			if err != nil {
				return err
			}

			reason := reasonRescheduled
			from := previous.Status
			if err := e.transitions.Append(txCtx, &domain.Transition{
				AppointmentID: id,
				From:          &from,
				To:            saved.Status,
				ActorID:       req.ActorID,
				Reason:        &reason,
				OccurredAt:    now.UTC(),
			}); err != nil {
				return err
			}
			updated = saved
			return nil
		},
		func() error {
			return e.index.Update(id, req.Start.UTC(), req.End.UTC())
		},
		func() {
			if err := e.index.Update(id, previous.StartTime, previous.EndTime); err != nil {
				e.logger.Error("Reschedule: appointment=%s failed to restore index interval: %v", id, err)
			}
		},
	)
	if err != nil {
		e.logger.Error("Reschedule: appointment=%s failed: %v", id, err)
		return nil, nil, mapStoreError("Reschedule", err)
	}

	e.logger.Info("Reschedule: appointment=%s moved %s -> %s",
		id, previous.StartTime.Format("2006-01-02T15:04"), updated.StartTime.Format("2006-01-02T15:04"))
	return updated, previous, nil
}

// checkReschedulable переносить можно только запланированные и подтвержденные записи
func checkReschedulable(appt *domain.Appointment) error {
	if appt.Status != domain.StatusScheduled && appt.Status != domain.StatusConfirmed {
		return fmt.Errorf("%w: cannot reschedule appointment %s in status %s", ErrInvalidTransition, appt.ID, appt.Status)
	}
	return nil
}
