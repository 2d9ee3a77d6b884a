package get_customer_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
)

const (
	msgInvalidCustomerID = "некорректный ID клиента"
	msgInvalidParams     = "некорректные параметры запроса"
	msgMissingUser       = "отсутствуют данные пользователя"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/customers/{customerId}/bookings
// Query params: status, serviceId, from, to (RFC3339), limit, offset (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, err := handlers.PathInt64(r, "customerId")
	if err != nil {
		h.logger.Warn("GET /customers/{id}/bookings - Invalid customer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	req, err := ToServiceRequest(r)
	if err != nil {
		h.logger.Warn("GET /customers/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetCustomerBookings(r.Context(), actor, customerID, req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /customers/{id}/bookings - Access denied: customer_id=%d, user_id=%d", customerID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /customers/{id}/bookings - Failed to get bookings: customer_id=%d, error=%v", customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /customers/{id}/bookings - Bookings retrieved: customer_id=%d, count=%d", customerID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
