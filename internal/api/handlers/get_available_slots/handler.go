package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-InkBookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidResourceID = "некорректный ID мастера"
	msgInvalidQuery      = "некорректные параметры запроса, дата ожидается в формате YYYY-MM-DD"
	msgResourceNotFound  = "мастер не найден"
	msgUnknownProfile    = "нет тарифа для выбранного размера и места"
	msgInvalidDate       = "дата уже прошла"
	msgDateTooFar        = "дата слишком далеко в будущем"
	msgInvalidParams     = "некорректные параметры длительности или шага"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/available-slots
// Query params: date (required), size + placement + complexity или durationMinutes, step
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.ResourceIDFromPath(r)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/available-slots - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(resourceID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /resources/{id}/available-slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/available-slots - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, getAvailableSlots.ErrUnknownProfile):
			h.logger.Warn("GET /resources/{id}/available-slots - Unknown profile: size=%q, placement=%q",
				useCaseReq.Size, useCaseReq.Placement)
			handlers.RespondUnprocessable(w, msgUnknownProfile)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /resources/{id}/available-slots - Date in the past: resource_id=%d", resourceID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /resources/{id}/available-slots - Date too far: resource_id=%d", resourceID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id}/available-slots - Invalid params: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /resources/{id}/available-slots - Failed to get slots: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id}/available-slots - Slots retrieved: resource_id=%d, date=%s, slots_count=%d",
		resourceID, result.Date.Format("2006-01-02"), len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
