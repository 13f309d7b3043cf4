package cancel_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-InkBookingService/internal/api/middleware"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgAppointmentNotFound  = "запись не найдена"
	msgUnauthorized         = "пользователь не определен"
)

type Handler struct {
	service AppointmentCanceller
	logger  Logger
}

func NewHandler(service AppointmentCanceller, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
// и PATCH /api/v1/admin/appointments/{appointmentId}/cancel.
// Клиент может отменить только свою запись, администратор любую.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.AppointmentIDFromPath(r)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var actorID *int64
	if claims, isAdmin := middleware.AdminClaimsFromContext(r.Context()); isAdmin {
		actorID = claims.ActorID()
	} else {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok {
			h.logger.Warn("PATCH /appointments/{id}/cancel - Unauthorized request")
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}

		current, err := h.service.Get(r.Context(), appointmentID)
		if err != nil {
			h.respondError(w, appointmentID.String(), err)
			return
		}
		if current.CustomerID != userID {
			h.logger.Warn("PATCH /appointments/{id}/cancel - Access denied: appointment_id=%s, user_id=%d", appointmentID, userID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)
			return
		}
		actorID = &userID
	}

	result, err := h.service.Cancel(r.Context(), appointmentID, req.ToServiceRequest(actorID))
	if err != nil {
		h.respondError(w, appointmentID.String(), err)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/cancel - Appointment cancelled: appointment_id=%s, reason=%s, fee=%s",
		appointmentID, req.ReasonCode, result.Outcome.FeeAmount.StringFixed(2))
	handlers.RespondJSON(w, http.StatusOK, FromServiceResult(result))
}

func (h *Handler) respondError(w http.ResponseWriter, appointmentID string, err error) {
	if status := handlers.RespondSchedulingError(w, err); status >= http.StatusInternalServerError {
		h.logger.Error("PATCH /appointments/{id}/cancel - Failed to cancel: appointment_id=%s, error=%v", appointmentID, err)
		return
	}
	h.logger.Warn("PATCH /appointments/{id}/cancel - Rejected: appointment_id=%s, error=%v", appointmentID, err)
}
