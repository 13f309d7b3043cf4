package reschedule_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-InkBookingService/internal/service/scheduling"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	StartTime string `json:"startTime"` // RFC3339
	EndTime   string `json:"endTime"`
}

// ToServiceRequest конвертирует HTTP запрос в запрос движка
func (r *RescheduleAppointmentRequest) ToServiceRequest(actorID int64) (scheduling.RescheduleRequest, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return scheduling.RescheduleRequest{}, fmt.Errorf("startTime: %w", err)
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return scheduling.RescheduleRequest{}, fmt.Errorf("endTime: %w", err)
	}

	return scheduling.RescheduleRequest{
		Start:   start,
		End:     end,
		ActorID: &actorID,
	}, nil
}
