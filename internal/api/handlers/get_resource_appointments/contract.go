package get_resource_appointments

import (
	"context"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

type AppointmentLister interface {
	ListByResource(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
