package upsert_availability_settings

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

// Handle PUT /api/v1/vendors/{vendorId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vendorID, err := handlers.PathInt64(r, "vendorId")
	if err != nil {
		h.logger.Warn("PUT /vendors/{id}/availability - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req models.UpsertSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /vendors/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	settings, err := h.service.UpsertSettings(r.Context(), actor, vendorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PUT /vendors/{id}/availability - Access denied: vendor_id=%d, user_id=%d", vendorID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("PUT /vendors/{id}/availability - Validation failed: vendor_id=%d, error=%v", vendorID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /vendors/{id}/availability - Failed to save settings: vendor_id=%d, error=%v", vendorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /vendors/{id}/availability - Settings saved: vendor_id=%d", vendorID)
	handlers.RespondJSON(w, http.StatusOK, settings)
}
