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

// Create создает запись к мастеру на интервал [Start, End)
func (e *Engine) Create(ctx context.Context, req CreateRequest) (*domain.Appointment, error) {
	ctx, span := tracer.Start(ctx, "scheduling.Create", trace.WithAttributes(
		attribute.Int64("resource.id", req.ResourceID),
		attribute.Int64("customer.id", req.CustomerID),
	))
	defer span.End()

	appt, err := e.create(ctx, req)
	e.finish(span, "create", err)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("appointment.id", appt.ID.String()))
	e.notify(ctx, domain.NewEvent(domain.EventAppointmentCreated, appt, e.timeProvider.Now(), map[string]any{
		"start_time":     appt.StartTime,
		"end_time":       appt.EndTime,
		"price":          appt.Price.StringFixed(2),
		"deposit_amount": appt.DepositAmount.StringFixed(2),
	}))
	return appt, nil
}

func (e *Engine) create(ctx context.Context, req CreateRequest) (*domain.Appointment, error) {
	// 1. Проверяем входные данные
	if req.ResourceID <= 0 || req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: resource_id and customer_id must be positive", ErrInvalidInput)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	now := e.timeProvider.Now()
	if err := e.checkInterval(req.Start, req.End, now); err != nil {
		return nil, err
	}

	// 2. Проверяем мастера и его рабочее время
	resource, err := e.loadResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}
	if err := checkWorkingHours(resource, req.Start, req.End); err != nil {
		return nil, err
	}

	// 3. Рассчитываем стоимость по ставке мастера
	est, err := e.estimate(pricing.EstimateRequest{
		Size:             req.Size,
		Placement:        req.Placement,
		ComplexityLevel:  req.ComplexityLevel,
		CustomHourlyRate: resource.HourlyRate,
	})
	if err != nil {
		return nil, err
	}

	// 4. Под блокировкой мастера проверяем пересечения и сохраняем
	unlock, err := e.lockResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if conflictID, ok := e.index.HasConflict(req.ResourceID, req.Start, req.End, nil); ok {
		e.logger.Warn("Create: resource=%d slot %s-%s conflicts with appointment=%s",
			req.ResourceID, req.Start.UTC().Format("2006-01-02T15:04"), req.End.UTC().Format("15:04"), conflictID)
		return nil, &SlotConflictError{AppointmentID: conflictID}
	}

	appt := &domain.Appointment{
		ID:              uuid.New(),
		ResourceID:      req.ResourceID,
		CustomerID:      req.CustomerID,
		StartTime:       req.Start.UTC(),
		EndTime:         req.End.UTC(),
		Status:          domain.StatusScheduled,
		Price:           est.TotalPrice,
		DepositAmount:   est.DepositAmount,
		EstimatedHours:  est.EstimatedHours,
		Size:            est.Size,
		Placement:       est.Placement,
		ComplexityLevel: est.ComplexityLevel,
		Notes:           req.Notes,
	}

	var created *domain.Appointment
	err = e.commit(ctx,
		func(txCtx context.Context) error {
			saved, err := e.appointments.Create(txCtx, appt)
			if err != nil {
				return err
			}
			if err := e.transitions.Append(txCtx, &domain.Transition{
				AppointmentID: saved.ID,
				To:            domain.StatusScheduled,
				ActorID:       &req.CustomerID,
				OccurredAt:    now.UTC(),
			}); err != nil {
				return err
			}
			created = saved
			return nil
		},
		func() error {
			return e.index.Insert(appt.ID, appt.ResourceID, appt.StartTime, appt.EndTime)
		},
		func() {
			e.index.Remove(appt.ID)
		},
	)
	if err != nil {
		e.logger.Error("Create: resource=%d failed to save appointment: %v", req.ResourceID, err)
		return nil, mapStoreError("Create", err)
	}

	e.metrics.IncTransition("", string(domain.StatusScheduled))
	e.logger.Info("Create: appointment=%s resource=%d customer=%d %s-%s price=%s",
		created.ID, created.ResourceID, created.CustomerID,
		created.StartTime.Format("2006-01-02T15:04"), created.EndTime.Format("15:04"), created.Price.StringFixed(2))

	return created, nil
}
