package update_working_hours

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-InkBookingService/internal/service/resources"
	"github.com/m04kA/SMC-InkBookingService/internal/service/resources/models"
)

const (
	msgInvalidResourceID  = "некорректный ID мастера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgResourceNotFound   = "мастер не найден"
	msgInvalidData        = "некорректное расписание"
)

type Handler struct {
	service ResourceService
	logger  Logger
}

func NewHandler(service ResourceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/resources/{resourceId}/working-hours
// Уже созданные записи не пересматриваются, новое расписание действует для новых.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.ResourceIDFromPath(r)
	if err != nil {
		h.logger.Warn("PUT /admin/resources/{id}/working-hours - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var req models.UpdateWorkingHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/resources/{id}/working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateWorkingHours(r.Context(), resourceID, &req)
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrResourceNotFound):
			h.logger.Warn("PUT /admin/resources/{id}/working-hours - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, resources.ErrInvalidInput):
			h.logger.Warn("PUT /admin/resources/{id}/working-hours - Invalid data: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgInvalidData, err.Error())

		default:
			h.logger.Error("PUT /admin/resources/{id}/working-hours - Failed to update: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/resources/{id}/working-hours - Working hours updated: resource_id=%d", resourceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
