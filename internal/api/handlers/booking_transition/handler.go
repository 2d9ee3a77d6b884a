package booking_transition

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	bookingTransition "github.com/m04kA/SMC-SchedulingService/internal/usecase/booking_transition"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUser        = "отсутствуют данные пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgConflict           = "время уже занято или бронирование изменено"
	msgAlternativeExpired = "срок ответа на предложенное время истёк"
	msgTooEarlyToStart    = "время бронирования ещё не наступило"
)

// Handler обрабатывает переходы жизненного цикла: PATCH /api/v1/bookings/{bookingId}/<action>
type Handler struct {
	useCase BookingTransitionUseCase
	logger  Logger
}

func NewHandler(useCase BookingTransitionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// transitionFunc выполняет переход для уже разобранного запроса
type transitionFunc func(r *http.Request, bookingID int64, actor domain.Actor) (*domain.Booking, error)

// Accept PATCH /api/v1/bookings/{bookingId}/accept
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, domain.ActionAccept, func(r *http.Request, id int64, actor domain.Actor) (*domain.Booking, error) {
		var req AcceptRequest
		if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
			return nil, errBadBody(err)
		}
		return h.useCase.Accept(r.Context(), id, actor, req.ToUseCaseRequest())
	})
}

// Reject PATCH /api/v1/bookings/{bookingId}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, domain.ActionReject, func(r *http.Request, id int64, actor domain.Actor) (*domain.Booking, error) {
		var req RejectRequest
		if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
			return nil, errBadBody(err)
		}
		return h.useCase.Reject(r.Context(), id, actor, req.ToUseCaseRequest())
	})
}

// ProposeAlternative PATCH /api/v1/bookings/{bookingId}/propose-alternative
func (h *Handler) ProposeAlternative(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, domain.ActionProposeAlternative, func(r *http.Request, id int64, actor domain.Actor) (*domain.Booking, error) {
		var req ProposeAlternativeRequest
		if err := handlers.DecodeJSON(r, &req); err != nil {
			return nil, errBadBody(err)
		}
		return h.useCase.ProposeAlternative(r.Context(), id, actor, req.ToUseCaseRequest())
	})
}

// AcceptAlternative PATCH /api/v1/bookings/{bookingId}/accept-alternative
func (h *Handler) AcceptAlternative(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, domain.ActionAcceptAlternative, func(r *http.Request, id int64, actor domain.Actor) (*domain.Booking, error) {
		return h.useCase.AcceptAlternative(r.Context(), id, actor)
	})
}

// Cancel PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, domain.ActionCancel, func(r *http.Request, id int64, actor domain.Actor) (*domain.Booking, error) {
		var req CancelRequest
		if err := handlers.DecodeJSON(r, &req); err != nil {
			return nil, errBadBody(err)
		}
		return h.useCase.Cancel(r.Context(), id, actor, req.ToUseCaseRequest())
	})
}

// Start PATCH /api/v1/bookings/{bookingId}/start
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, domain.ActionStart, func(r *http.Request, id int64, actor domain.Actor) (*domain.Booking, error) {
		var req StartRequest
		if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
			return nil, errBadBody(err)
		}
		return h.useCase.Start(r.Context(), id, actor, req.ToUseCaseRequest())
	})
}

// Complete PATCH /api/v1/bookings/{bookingId}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, domain.ActionComplete, func(r *http.Request, id int64, actor domain.Actor) (*domain.Booking, error) {
		return h.useCase.Complete(r.Context(), id, actor)
	})
}

// badBodyError ошибка разбора тела запроса
type badBodyError struct {
	err error
}

func (e *badBodyError) Error() string { return e.err.Error() }

func errBadBody(err error) error {
	return &badBodyError{err: err}
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, action domain.Action, run transitionFunc) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/%s - Invalid booking ID: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	booking, err := run(r, bookingID, actor)
	if err != nil {
		h.respondError(w, action, bookingID, actor, err)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/%s - Booking updated: booking_id=%d, status=%s", action, bookingID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(booking))
}

func (h *Handler) respondError(w http.ResponseWriter, action domain.Action, bookingID int64, actor domain.Actor, err error) {
	var bodyErr *badBodyError

	switch {
	case errors.As(err, &bodyErr):
		h.logger.Warn("PATCH /bookings/{id}/%s - Invalid request body: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	case errors.Is(err, bookingTransition.ErrBookingNotFound):
		h.logger.Warn("PATCH /bookings/{id}/%s - Booking not found: booking_id=%d", action, bookingID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, bookingTransition.ErrAccessDenied):
		h.logger.Warn("PATCH /bookings/{id}/%s - Access denied: booking_id=%d, %s=%d", action, bookingID, actor.Role, actor.UserID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, domain.ErrInvalidStateTransition):
		handlers.RespondUnprocessable(w, err.Error())

	case errors.Is(err, bookingTransition.ErrConflict):
		h.logger.Warn("PATCH /bookings/{id}/%s - Conflict: booking_id=%d, error=%v", action, bookingID, err)
		handlers.RespondConflict(w, msgConflict)

	case errors.Is(err, bookingTransition.ErrAlternativeExpired):
		handlers.RespondGone(w, msgAlternativeExpired)

	case errors.Is(err, bookingTransition.ErrTooEarlyToStart):
		handlers.RespondBadRequest(w, msgTooEarlyToStart)

	case errors.Is(err, bookingTransition.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("PATCH /bookings/{id}/%s - Failed: booking_id=%d, error=%v", action, bookingID, err)
		handlers.RespondInternalError(w)
	}
}
