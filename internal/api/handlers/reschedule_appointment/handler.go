package reschedule_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-InkBookingService/internal/api/middleware"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTime          = "некорректный формат времени, ожидается RFC3339"
	msgAppointmentNotFound  = "запись не найдена"
	msgUnauthorized         = "пользователь не определен"
)

type Handler struct {
	service AppointmentRescheduler
	logger  Logger
}

func NewHandler(service AppointmentRescheduler, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Unauthorized request")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	appointmentID, err := handlers.AppointmentIDFromPath(r)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(userID)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	// 1. Проверяем, что запись принадлежит пользователю
	current, err := h.service.Get(r.Context(), appointmentID)
	if err != nil {
		h.respondError(w, appointmentID.String(), err)
		return
	}
	if current.CustomerID != userID {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Access denied: appointment_id=%s, user_id=%d", appointmentID, userID)
		handlers.RespondNotFound(w, msgAppointmentNotFound)
		return
	}

	// 2. Переносим
	appointment, err := h.service.Reschedule(r.Context(), appointmentID, serviceReq)
	if err != nil {
		h.respondError(w, appointmentID.String(), err)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/reschedule - Appointment rescheduled: appointment_id=%s, start=%s",
		appointmentID, appointment.StartTime)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainAppointment(appointment))
}

func (h *Handler) respondError(w http.ResponseWriter, appointmentID string, err error) {
	if status := handlers.RespondSchedulingError(w, err); status >= http.StatusInternalServerError {
		h.logger.Error("PATCH /appointments/{id}/reschedule - Failed to reschedule: appointment_id=%s, error=%v", appointmentID, err)
		return
	}
	h.logger.Warn("PATCH /appointments/{id}/reschedule - Rejected: appointment_id=%s, error=%v", appointmentID, err)
}
