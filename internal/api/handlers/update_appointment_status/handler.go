package update_appointment_status

import (
	"net/http"

	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-InkBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/internal/service/scheduling"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStatus        = "некорректный статус записи"
	msgUseCancelEndpoint    = "для отмены используйте /cancel"
)

type Handler struct {
	updater StatusUpdater
	logger  Logger
}

func NewHandler(updater StatusUpdater, logger Logger) *Handler {
	return &Handler{
		updater: updater,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/appointments/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.AppointmentIDFromPath(r)
	if err != nil {
		h.logger.Warn("PATCH /admin/appointments/{id}/status - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/appointments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	status, err := domain.ParseAppointmentStatus(req.Status)
	if err != nil {
		h.logger.Warn("PATCH /admin/appointments/{id}/status - Invalid status: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}
	if status == domain.StatusCancelled {
		handlers.RespondBadRequest(w, msgUseCancelEndpoint)
		return
	}

	transitionReq := scheduling.TransitionRequest{Reason: req.Reason}
	if claims, ok := middleware.AdminClaimsFromContext(r.Context()); ok {
		transitionReq.ActorID = claims.ActorID()
	}

	appointment, err := h.updater.Transition(r.Context(), appointmentID, status, transitionReq)
	if err != nil {
		if code := handlers.RespondSchedulingError(w, err); code >= http.StatusInternalServerError {
			h.logger.Error("PATCH /admin/appointments/{id}/status - Failed to update status: appointment_id=%s, status=%s, error=%v",
				appointmentID, status, err)
		} else {
			h.logger.Warn("PATCH /admin/appointments/{id}/status - Rejected: appointment_id=%s, status=%s, error=%v",
				appointmentID, status, err)
		}
		return
	}

	h.logger.Info("PATCH /admin/appointments/{id}/status - Status updated: appointment_id=%s, status=%s", appointmentID, status)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainAppointment(appointment))
}
