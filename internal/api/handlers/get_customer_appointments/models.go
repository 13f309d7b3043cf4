package get_customer_appointments

import (
	"strconv"

	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
	getCustomerAppointments "github.com/m04kA/SMC-InkBookingService/internal/usecase/get_customer_appointments"
)

// CustomerAppointmentsResponse HTTP response model
type CustomerAppointmentsResponse struct {
	CustomerID   int64                           `json:"customerId"`
	Appointments []*handlers.AppointmentResponse `json:"appointments"`
	Total        int                             `json:"total"`
}

// ToUseCaseRequest формирует запрос к use case из query параметров
func ToUseCaseRequest(customerID int64, statusStr, upcomingStr string) (*getCustomerAppointments.Request, error) {
	req := &getCustomerAppointments.Request{CustomerID: customerID}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if upcomingStr != "" {
		upcoming, err := strconv.ParseBool(upcomingStr)
		if err != nil {
			return nil, err
		}
		req.UpcomingOnly = upcoming
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCustomerAppointments.Response) *CustomerAppointmentsResponse {
	return &CustomerAppointmentsResponse{
		CustomerID:   resp.CustomerID,
		Appointments: handlers.FromDomainAppointments(resp.Appointments),
		Total:        len(resp.Appointments),
	}
}
