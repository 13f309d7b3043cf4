package create_resource

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-InkBookingService/internal/service/resources"
	"github.com/m04kA/SMC-InkBookingService/internal/service/resources/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные мастера"
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

// Handle POST /api/v1/admin/resources
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateResourceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/resources - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, resources.ErrInvalidInput) {
			h.logger.Warn("POST /admin/resources - Invalid data: %v", err)
			handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgInvalidData, err.Error())
			return
		}

		h.logger.Error("POST /admin/resources - Failed to create resource: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/resources - Resource created: resource_id=%d, name=%s", result.ID, result.Name)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
