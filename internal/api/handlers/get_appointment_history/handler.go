package get_appointment_history

import (
	"net/http"

	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
)

const msgInvalidAppointmentID = "некорректный ID записи"

type Handler struct {
	reader HistoryReader
	logger Logger
}

func NewHandler(reader HistoryReader, logger Logger) *Handler {
	return &Handler{
		reader: reader,
		logger: logger,
	}
}

// Handle GET /api/v1/admin/appointments/{appointmentId}/history
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.AppointmentIDFromPath(r)
	if err != nil {
		h.logger.Warn("GET /admin/appointments/{id}/history - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	transitions, err := h.reader.History(r.Context(), appointmentID)
	if err != nil {
		if status := handlers.RespondSchedulingError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("GET /admin/appointments/{id}/history - Failed to get history: appointment_id=%s, error=%v", appointmentID, err)
		} else {
			h.logger.Warn("GET /admin/appointments/{id}/history - Rejected: appointment_id=%s, error=%v", appointmentID, err)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(appointmentID.String(), transitions))
}
