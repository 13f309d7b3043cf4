package create_appointment

import (
	"context"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/internal/service/scheduling"
)

type AppointmentCreator interface {
	Create(ctx context.Context, req scheduling.CreateRequest) (*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
