package reschedule_appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/internal/service/scheduling"
)

type AppointmentRescheduler interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	Reschedule(ctx context.Context, id uuid.UUID, req scheduling.RescheduleRequest) (*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
