package delete_block

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

const (
	msgInvalidVendorID = "некорректный ID исполнителя"
	msgInvalidBlockID  = "некорректный ID блокировки"
	msgMissingUser     = "отсутствуют данные пользователя"
	msgForbidden       = "доступ запрещен"
	msgBlockNotFound   = "блокировка не найдена"
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

// Handle DELETE /api/v1/vendors/{vendorId}/blocks/{blockId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vendorID, err := handlers.PathInt64(r, "vendorId")
	if err != nil {
		h.logger.Warn("DELETE /vendors/{id}/blocks/{id} - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return
	}

	blockID, err := handlers.PathInt64(r, "blockId")
	if err != nil {
		h.logger.Warn("DELETE /vendors/{id}/blocks/{id} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	if err := h.service.DeleteBlock(r.Context(), actor, vendorID, blockID); err != nil {
		switch {
		case errors.Is(err, availability.ErrBlockNotFound):
			handlers.RespondNotFound(w, msgBlockNotFound)

		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("DELETE /vendors/{id}/blocks/{id} - Access denied: block_id=%d, user_id=%d", blockID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /vendors/{id}/blocks/{id} - Failed to delete block: block_id=%d, error=%v", blockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /vendors/{id}/blocks/{id} - Block deleted: block_id=%d", blockID)
	handlers.RespondNoContent(w)
}
