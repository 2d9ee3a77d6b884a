package get_availability_settings

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

const (
	msgInvalidVendorID = "некорректный ID исполнителя"
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

// Handle GET /api/v1/vendors/{vendorId}/availability
// Публичный: если настройки не сохранялись, возвращаются значения по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vendorID, err := handlers.PathInt64(r, "vendorId")
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/availability - Invalid vendor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVendorID)
		return
	}

	settings, err := h.service.GetSettings(r.Context(), vendorID)
	if err != nil {
		h.logger.Error("GET /vendors/{id}/availability - Failed to get settings: vendor_id=%d, error=%v", vendorID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /vendors/{id}/availability - Settings retrieved: vendor_id=%d, is_default=%t", vendorID, settings.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, settings)
}
