package get_customer_appointments

import (
	"context"

	getCustomerAppointments "github.com/m04kA/SMC-InkBookingService/internal/usecase/get_customer_appointments"
)

type GetCustomerAppointmentsUseCase interface {
	Execute(ctx context.Context, req *getCustomerAppointments.Request) (*getCustomerAppointments.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
