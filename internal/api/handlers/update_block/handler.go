package update_block

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
	msgInvalidBlockID     = "некорректный ID блокировки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUser        = "отсутствуют данные пользователя"
	msgForbidden          = "доступ запрещен"
	msgBlockNotFound      = "блокировка не найдена"
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

// Handle PATCH /api/v1/vendors/{vendorId}/blocks/{blockId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vendorID, err := handlers.PathInt64(r, "vendorId")
	if err != nil {
		h.logger.Warn("PATCH /vendors/{id}/blocks/{id} - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return
	}

	blockID, err := handlers.PathInt64(r, "blockId")
	if err != nil {
		h.logger.Warn("PATCH /vendors/{id}/blocks/{id} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req models.UpdateBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /vendors/{id}/blocks/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	block, err := h.service.UpdateBlock(r.Context(), actor, vendorID, blockID, &req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrBlockNotFound):
			handlers.RespondNotFound(w, msgBlockNotFound)

		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PATCH /vendors/{id}/blocks/{id} - Access denied: block_id=%d, user_id=%d", blockID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /vendors/{id}/blocks/{id} - Failed to update block: block_id=%d, error=%v", blockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /vendors/{id}/blocks/{id} - Block updated: block_id=%d", blockID)
	handlers.RespondJSON(w, http.StatusOK, block)
}
