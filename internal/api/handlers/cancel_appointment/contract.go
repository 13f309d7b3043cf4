package cancel_appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/internal/service/scheduling"
)

type AppointmentCanceller interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID, req scheduling.CancelRequest) (*scheduling.CancellationResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
