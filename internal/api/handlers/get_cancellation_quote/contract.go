package get_cancellation_quote

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

type CancellationQuoter interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	QuoteCancellation(ctx context.Context, id uuid.UUID) (*domain.CancellationOutcome, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
