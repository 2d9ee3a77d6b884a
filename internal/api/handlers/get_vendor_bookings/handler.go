package get_vendor_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
)

const (
	msgInvalidVendorID = "некорректный ID исполнителя"
	msgInvalidParams   = "некорректные параметры запроса"
	msgMissingUser     = "отсутствуют данные пользователя"
	msgForbidden       = "доступ запрещен"
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

// Handle GET /api/v1/vendors/{vendorId}/bookings
// Query params: status, serviceId, from, to (RFC3339), limit, offset (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vendorID, err := handlers.PathInt64(r, "vendorId")
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/bookings - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	req, err := ToServiceRequest(r)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetVendorBookings(r.Context(), actor, vendorID, req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /vendors/{id}/bookings - Access denied: vendor_id=%d, user_id=%d", vendorID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /vendors/{id}/bookings - Failed to get bookings: vendor_id=%d, error=%v", vendorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /vendors/{id}/bookings - Bookings retrieved: vendor_id=%d, count=%d", vendorID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
