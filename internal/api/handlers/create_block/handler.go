package create_block

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

const (
	msgInvalidVendorID    = "некорректный ID исполнителя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUser        = "отсутствуют данные пользователя"
	msgForbidden          = "доступ запрещен"
	msgServiceNotFound    = "услуга не найдена"
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

// Handle POST /api/v1/vendors/{vendorId}/blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vendorID, err := handlers.PathInt64(r, "vendorId")
	if err != nil {
		h.logger.Warn("POST /vendors/{id}/blocks - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req models.CreateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vendors/{id}/blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	block, err := h.service.CreateBlock(r.Context(), actor, vendorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("POST /vendors/{id}/blocks - Access denied: vendor_id=%d, user_id=%d", vendorID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("POST /vendors/{id}/blocks - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /vendors/{id}/blocks - Failed to create block: vendor_id=%d, error=%v", vendorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /vendors/{id}/blocks - Block created: vendor_id=%d, block_id=%d", vendorID, block.ID)
	handlers.RespondJSON(w, http.StatusCreated, block)
}
