package get_customer_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-InkBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-InkBookingService/internal/api/middleware"
	getCustomerAppointments "github.com/m04kA/SMC-InkBookingService/internal/usecase/get_customer_appointments"
)

const (
	msgUnauthorized  = "пользователь не определен"
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetCustomerAppointmentsUseCase
	logger  Logger
}

func NewHandler(useCase GetCustomerAppointmentsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments
// Query params: status, upcoming (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments - Unauthorized request")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	query := r.URL.Query()
	useCaseReq, err := ToUseCaseRequest(customerID, query.Get("status"), query.Get("upcoming"))
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if errors.Is(err, getCustomerAppointments.ErrInvalidInput) {
			h.logger.Warn("GET /appointments - Invalid params: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}

		h.logger.Error("GET /appointments - Failed to list appointments: customer_id=%d, error=%v", customerID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
