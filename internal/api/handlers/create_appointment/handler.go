package create_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-InkBookingService/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFields      = "некорректный формат времени, ожидается RFC3339"
	msgUnauthorized       = "пользователь не определен"
)

type Handler struct {
	creator AppointmentCreator
	logger  Logger
}

func NewHandler(creator AppointmentCreator, logger Logger) *Handler {
	return &Handler{
		creator: creator,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Unauthorized request")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFields)
		return
	}

	appointment, err := h.creator.Create(r.Context(), serviceReq)
	if err != nil {
		status := handlers.RespondSchedulingError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /appointments - Failed to create appointment: customer_id=%d, resource_id=%d, error=%v",
				customerID, req.ResourceID, err)
		} else {
			h.logger.Warn("POST /appointments - Rejected: customer_id=%d, resource_id=%d, status=%d, error=%v",
				customerID, req.ResourceID, status, err)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%s, customer_id=%d, resource_id=%d",
		appointment.ID, customerID, req.ResourceID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromDomainAppointment(appointment))
}
