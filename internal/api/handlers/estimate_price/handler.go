package estimate_price

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-InkBookingService/internal/service/pricing"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnknownProfile     = "нет тарифа для выбранного размера и места"
	msgInvalidRate        = "некорректная почасовая ставка"
)

type Handler struct {
	estimator PriceEstimator
	logger    Logger
}

func NewHandler(estimator PriceEstimator, logger Logger) *Handler {
	return &Handler{
		estimator: estimator,
		logger:    logger,
	}
}

// Handle POST /api/v1/pricing/estimate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /pricing/estimate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /pricing/estimate - Invalid rate: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRate)
		return
	}

	estimate, err := h.estimator.Estimate(serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrUnknownProfile):
			h.logger.Warn("POST /pricing/estimate - Unknown profile: size=%q, placement=%q", req.Size, req.Placement)
			handlers.RespondUnprocessable(w, msgUnknownProfile)

		case errors.Is(err, pricing.ErrInvalidInput):
			h.logger.Warn("POST /pricing/estimate - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRate)

		default:
			h.logger.Error("POST /pricing/estimate - Failed to estimate: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(estimate))
}
