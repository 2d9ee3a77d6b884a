package request_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	requestBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/request_booking"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingUser           = "отсутствуют данные пользователя"
	msgForbidden             = "бронировать может только клиент"
	msgServiceNotFound       = "услуга не найдена"
	msgServiceInactive       = "услуга недоступна для бронирования"
	msgPricingOptionNotFound = "вариант цены не найден"
	msgTooLateToBook         = "слишком поздно для бронирования этого времени"
	msgTooFarInAdvance       = "слишком ранний запрос для этого времени"
)

type Handler struct {
	useCase RequestBookingUseCase
	logger  Logger
}

func NewHandler(useCase RequestBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req RequestBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, requestBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Access denied: %s=%d", actor.Role, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, requestBooking.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, requestBooking.ErrServiceInactive):
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, requestBooking.ErrPricingOptionNotFound):
			handlers.RespondBadRequest(w, msgPricingOptionNotFound)

		case errors.Is(err, requestBooking.ErrTooLateToBook):
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, requestBooking.ErrTooFarInAdvance):
			handlers.RespondBadRequest(w, msgTooFarInAdvance)

		case errors.Is(err, requestBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to request booking: service_id=%d, error=%v", req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking requested: booking_id=%d, customer_id=%d, service_id=%d",
		booking.ID, booking.CustomerID, booking.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(booking))
}
