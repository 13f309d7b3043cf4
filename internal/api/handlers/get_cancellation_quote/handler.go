package get_cancellation_quote

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
	service CancellationQuoter
	logger  Logger
}

func NewHandler(service CancellationQuoter, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/{appointmentId}/cancellation-quote
// Показывает, сколько удержат при отмене прямо сейчас. Запись не меняется.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/{id}/cancellation-quote - Unauthorized request")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	appointmentID, err := handlers.AppointmentIDFromPath(r)
	if err != nil {
		h.logger.Warn("GET /appointments/{id}/cancellation-quote - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	current, err := h.service.Get(r.Context(), appointmentID)
	if err != nil {
		h.respondError(w, appointmentID.String(), err)
		return
	}
	if current.CustomerID != userID {
		h.logger.Warn("GET /appointments/{id}/cancellation-quote - Access denied: appointment_id=%s, user_id=%d", appointmentID, userID)
		handlers.RespondNotFound(w, msgAppointmentNotFound)
		return
	}

	outcome, err := h.service.QuoteCancellation(r.Context(), appointmentID)
	if err != nil {
		h.respondError(w, appointmentID.String(), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainOutcome(outcome))
}

func (h *Handler) respondError(w http.ResponseWriter, appointmentID string, err error) {
	if status := handlers.RespondSchedulingError(w, err); status >= http.StatusInternalServerError {
		h.logger.Error("GET /appointments/{id}/cancellation-quote - Failed to quote: appointment_id=%s, error=%v", appointmentID, err)
		return
	}
	h.logger.Warn("GET /appointments/{id}/cancellation-quote - Rejected: appointment_id=%s, error=%v", appointmentID, err)
}
