package get_appointment_history

import (
	"time"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// TransitionResponse запись журнала смены статусов
type TransitionResponse struct {
	ID         int64   `json:"id"`
	From       *string `json:"from,omitempty"`
	To         string  `json:"to"`
	ActorID    *int64  `json:"actorId,omitempty"`
	Reason     *string `json:"reason,omitempty"`
	OccurredAt string  `json:"occurredAt"`
}

// HistoryResponse HTTP response model
type HistoryResponse struct {
	AppointmentID string                `json:"appointmentId"`
	Transitions   []*TransitionResponse `json:"transitions"`
}

// FromDomain конвертирует журнал в HTTP ответ
func FromDomain(appointmentID string, transitions []*domain.Transition) *HistoryResponse {
	resp := &HistoryResponse{
		AppointmentID: appointmentID,
		Transitions:   make([]*TransitionResponse, 0, len(transitions)),
	}
	for _, t := range transitions {
		item := &TransitionResponse{
			ID:         t.ID,
			To:         string(t.To),
			ActorID:    t.ActorID,
			Reason:     t.Reason,
			OccurredAt: t.OccurredAt.UTC().Format(time.RFC3339),
		}
		if t.From != nil {
			from := string(*t.From)
			item.From = &from
		}
		resp.Transitions = append(resp.Transitions, item)
	}
	return resp
}
