package get_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-InkBookingService/internal/api/middleware"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgAppointmentNotFound  = "запись не найдена"
	msgUnauthorized         = "пользователь не определен"
)

type Handler struct {
	getter AppointmentGetter
	logger Logger
}

func NewHandler(getter AppointmentGetter, logger Logger) *Handler {
	return &Handler{
		getter: getter,
		logger: logger,
	}
}

// Handle GET /api/v1/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/{id} - Unauthorized request")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	appointmentID, err := handlers.AppointmentIDFromPath(r)
	if err != nil {
		h.logger.Warn("GET /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	appointment, err := h.getter.Get(r.Context(), appointmentID)
	if err != nil {
		if status := handlers.RespondSchedulingError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("GET /appointments/{id} - Failed to get appointment: appointment_id=%s, error=%v", appointmentID, err)
		} else {
			h.logger.Warn("GET /appointments/{id} - Appointment not available: appointment_id=%s, error=%v", appointmentID, err)
		}
		return
	}

	// Чужая запись выглядит как несуществующая
	if appointment.CustomerID != userID {
		h.logger.Warn("GET /appointments/{id} - Access denied: appointment_id=%s, user_id=%d", appointmentID, userID)
		handlers.RespondNotFound(w, msgAppointmentNotFound)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainAppointment(appointment))
}
