package expire_alternatives

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

type Handler struct {
	useCase ExpireAlternativesUseCase
	logger  Logger
}

func NewHandler(useCase ExpireAlternativesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /internal/sweeps/alternative-expiry
// Для внешних планировщиков; повторный вызов безопасен
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("POST /internal/sweeps/alternative-expiry - Sweep failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/sweeps/alternative-expiry - Sweep finished: expired=%d", result.Expired)
	handlers.RespondJSON(w, http.StatusOK, result)
}
