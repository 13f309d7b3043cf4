package cancel_appointment

import (
	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-InkBookingService/internal/service/scheduling"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	ReasonCode string `json:"reasonCode"` // "client_request", "illness", ...
}

// CancelAppointmentResponse HTTP response model
type CancelAppointmentResponse struct {
	Appointment *handlers.AppointmentResponse         `json:"appointment"`
	Outcome     *handlers.CancellationOutcomeResponse `json:"outcome"`
}

// ToServiceRequest конвертирует HTTP запрос в запрос движка
func (r *CancelAppointmentRequest) ToServiceRequest(actorID *int64) scheduling.CancelRequest {
	return scheduling.CancelRequest{
		ReasonCode: r.ReasonCode,
		ActorID:    actorID,
	}
}

// FromServiceResult конвертирует результат отмены в HTTP ответ
func FromServiceResult(res *scheduling.CancellationResult) *CancelAppointmentResponse {
	return &CancelAppointmentResponse{
		Appointment: handlers.FromDomainAppointment(res.Appointment),
		Outcome:     handlers.FromDomainOutcome(res.Outcome),
	}
}
