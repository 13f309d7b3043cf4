package get_appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

type AppointmentGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
