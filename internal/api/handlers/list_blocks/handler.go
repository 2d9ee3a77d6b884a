package list_blocks

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

const (
	msgInvalidVendorID = "некорректный ID исполнителя"
	msgInvalidParams   = "некорректные параметры запроса"
	msgMissingUser     = "отсутствуют данные пользователя"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/vendors/{vendorId}/blocks
// Query params: from, to (RFC3339, обязательные), serviceId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vendorID, err := handlers.PathInt64(r, "vendorId")
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/blocks - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	req, err := ToServiceRequest(r, vendorID)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/blocks - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListBlocks(r.Context(), actor, req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("GET /vendors/{id}/blocks - Access denied: vendor_id=%d, user_id=%d", vendorID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /vendors/{id}/blocks - Failed to list blocks: vendor_id=%d, error=%v", vendorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /vendors/{id}/blocks - Blocks retrieved: vendor_id=%d, count=%d", vendorID, len(result.Blocks))
	handlers.RespondJSON(w, http.StatusOK, result)
}
