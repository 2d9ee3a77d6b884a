package calculate_price

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	calculatePrice "github.com/m04kA/SMC-SchedulingService/internal/usecase/calculate_price"
)

const (
	msgInvalidServiceID      = "некорректный ID услуги"
	msgInvalidParams         = "некорректные параметры запроса"
	msgServiceNotFound       = "услуга не найдена"
	msgPricingOptionNotFound = "вариант цены не найден"
)

type Handler struct {
	useCase CalculatePriceUseCase
	logger  Logger
}

func NewHandler(useCase CalculatePriceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/price
// Query params: start, end (required, RFC3339), pricingOptionId
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.PathInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /services/{id}/price - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(r, serviceID)
	if err != nil {
		h.logger.Warn("GET /services/{id}/price - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, calculatePrice.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, calculatePrice.ErrPricingOptionNotFound):
			handlers.RespondBadRequest(w, msgPricingOptionNotFound)

		case errors.Is(err, calculatePrice.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/price - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /services/{id}/price - Failed to calculate price: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/price - Price calculated: service_id=%d, model=%s", serviceID, result.Breakdown.PricingModel)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
