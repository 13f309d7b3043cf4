package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-InkBookingService/internal/service/scheduling"
)

// CreateAppointmentRequest HTTP request model.
// Цена считается по ставке мастера, клиент ее не передает.
type CreateAppointmentRequest struct {
	ResourceID      int64   `json:"resourceId"`
	StartTime       string  `json:"startTime"` // RFC3339, "2026-03-10T11:00:00+01:00"
	EndTime         string  `json:"endTime"`
	Size            string  `json:"size"`
	Placement       string  `json:"placement"`
	ComplexityLevel int     `json:"complexityLevel"`
	Notes           *string `json:"notes,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в запрос движка
func (r *CreateAppointmentRequest) ToServiceRequest(customerID int64) (scheduling.CreateRequest, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return scheduling.CreateRequest{}, fmt.Errorf("startTime: %w", err)
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return scheduling.CreateRequest{}, fmt.Errorf("endTime: %w", err)
	}

	return scheduling.CreateRequest{
		ResourceID:      r.ResourceID,
		CustomerID:      customerID,
		Start:           start,
		End:             end,
		Size:            r.Size,
		Placement:       r.Placement,
		ComplexityLevel: r.ComplexityLevel,
		Notes:           r.Notes,
	}, nil
}
