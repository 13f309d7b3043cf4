package scheduling

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// Cancel отменяет запись, рассчитывает штраф по политике отмены и освобождает слот
func (e *Engine) Cancel(ctx context.Context, id uuid.UUID, req CancelRequest) (*CancellationResult, error) {
	ctx, span := tracer.Start(ctx, "scheduling.Cancel", trace.WithAttributes(
		attribute.String("appointment.id", id.String()),
	))
	defer span.End()

	result, err := e.cancel(ctx, id, req)
	e.finish(span, "cancel", err)
	if err != nil {
		return nil, err
	}

	outcome := result.Outcome
	span.SetAttributes(attribute.Float64("cancellation.notice_hours", outcome.NoticeHours))
	e.notify(ctx, domain.NewEvent(domain.EventAppointmentCancelled, result.Appointment, e.timeProvider.Now(), map[string]any{
		"reason_code":        req.ReasonCode,
		"notice_hours":       outcome.NoticeHours,
		"fee_percentage":     outcome.FeePercentage.String(),
		"fee_amount":         outcome.FeeAmount.StringFixed(2),
		"deposit_refundable": outcome.DepositRefundable,
		"refund_amount":      outcome.RefundAmount.StringFixed(2),
	}))
	return result, nil
}

func (e *Engine) cancel(ctx context.Context, id uuid.UUID, req CancelRequest) (*CancellationResult, error) {
	reasonCode := strings.TrimSpace(req.ReasonCode)
	if reasonCode == "" || len(reasonCode) > domain.MaxReasonCodeLength {
		return nil, fmt.Errorf("%w: reason_code must be 1..%d characters", ErrInvalidInput, domain.MaxReasonCodeLength)
	}

	var outcome *domain.CancellationOutcome

	// Политика считается внутри транзакции по свежей версии записи
	prepare := func(appt *domain.Appointment) error {
		result, err := e.evaluatePolicy(appt, e.timeProvider.Now())
		if err != nil {
			return err
		}
		outcome = result
		return nil
	}
	mutate := func(appt *domain.Appointment) {
		cancelledAt := e.timeProvider.Now().UTC()
		fee := outcome.FeeAmount
		appt.CancelledAt = &cancelledAt
		appt.CancellationReasonCode = &reasonCode
		appt.CancellationFee = &fee
	}

	updated, _, err := e.applyTransition(ctx, id, domain.StatusCancelled,
		TransitionRequest{ActorID: req.ActorID, Reason: &reasonCode}, mutate, prepare)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Cancel: appointment=%s reason=%s notice=%.2fh fee=%s refund=%s",
		id, reasonCode, outcome.NoticeHours, outcome.FeeAmount.StringFixed(2), outcome.RefundAmount.StringFixed(2))

	return &CancellationResult{Appointment: updated, Outcome: outcome}, nil
}

// QuoteCancellation рассчитывает условия отмены на текущий момент, не меняя запись
func (e *Engine) QuoteCancellation(ctx context.Context, id uuid.UUID) (*domain.CancellationOutcome, error) {
	ctx, span := tracer.Start(ctx, "scheduling.QuoteCancellation", trace.WithAttributes(
		attribute.String("appointment.id", id.String()),
	))
	defer span.End()

	outcome, err := e.quoteCancellation(ctx, id)
	e.finish(span, "quote_cancellation", err)
	return outcome, err
}

func (e *Engine) quoteCancellation(ctx context.Context, id uuid.UUID) (*domain.CancellationOutcome, error) {
	appt, err := e.getAppointment(ctx, "QuoteCancellation", id)
	if err != nil {
		return nil, err
	}
	return e.evaluatePolicy(appt, e.timeProvider.Now())
}
