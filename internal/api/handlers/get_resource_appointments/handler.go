package get_resource_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
)

const (
	msgInvalidResourceID = "некорректный ID мастера"
	msgInvalidQuery      = "некорректные параметры запроса"
)

type Handler struct {
	lister AppointmentLister
	logger Logger
}

func NewHandler(lister AppointmentLister, logger Logger) *Handler {
	return &Handler{
		lister: lister,
		logger: logger,
	}
}

// Handle GET /api/v1/admin/resources/{resourceId}/appointments
// Query: from, to (RFC3339), status, includeInactive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.ResourceIDFromPath(r)
	if err != nil {
		h.logger.Warn("GET /admin/resources/{id}/appointments - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	query := r.URL.Query()
	filter, err := ToFilter(
		resourceID,
		query.Get("from"),
		query.Get("to"),
		query.Get("status"),
		query.Get("includeInactive"),
	)
	if err != nil {
		h.logger.Warn("GET /admin/resources/{id}/appointments - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	appointments, err := h.lister.ListByResource(r.Context(), filter)
	if err != nil {
		if status := handlers.RespondSchedulingError(w, err); status >= http.StatusInternalServerError {
			h.logger.Error("GET /admin/resources/{id}/appointments - Failed to list: resource_id=%d, error=%v", resourceID, err)
		} else {
			h.logger.Warn("GET /admin/resources/{id}/appointments - Rejected: resource_id=%d, error=%v", resourceID, err)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(resourceID, appointments))
}
