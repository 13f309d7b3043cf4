package get_customer_appointments

import (
	"fmt"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// validateRequest проверяет запрос и возвращает распарсенный статус
func validateRequest(req *Request) (*domain.AppointmentStatus, error) {
	if req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customer_id must be positive", ErrInvalidInput)
	}

	if req.Status == nil {
		return nil, nil
	}

	status, err := domain.ParseAppointmentStatus(*req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &status, nil
}
