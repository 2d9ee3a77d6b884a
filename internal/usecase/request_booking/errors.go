package request_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("request_booking: service not found")

	// ErrServiceInactive возвращается, когда услуга снята с публикации
	ErrServiceInactive = errors.New("request_booking: service is not active")

	// ErrPricingOptionNotFound возвращается, когда вариант цены не найден у услуги
	ErrPricingOptionNotFound = errors.New("request_booking: pricing option not found")

	// ErrTooLateToBook возвращается, когда начало раньше now + minBookingNoticeHours
	ErrTooLateToBook = errors.New("request_booking: too late to book this window")

	// ErrTooFarInAdvance возвращается, когда начало позже now + maxBookingAdvanceDays
	ErrTooFarInAdvance = errors.New("request_booking: window is too far in advance")

	// ErrAccessDenied возвращается, когда запрос делает не клиент
	ErrAccessDenied = errors.New("request_booking: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("request_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("request_booking: internal error")
)
