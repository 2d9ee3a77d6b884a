package booking_transition

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking_transition: booking not found")

	// ErrAccessDenied возвращается, когда действующее лицо не может выполнить переход
	ErrAccessDenied = errors.New("booking_transition: access denied")

	// ErrConflict возвращается, когда окно уже занято или бронирование изменено параллельно
	ErrConflict = errors.New("booking_transition: conflict")

	// ErrAlternativeExpired возвращается при попытке принять просроченную альтернативу
	ErrAlternativeExpired = errors.New("booking_transition: alternative has expired")

	// ErrTooEarlyToStart возвращается при старте до начала окна без override
	ErrTooEarlyToStart = errors.New("booking_transition: booking window has not started yet")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("booking_transition: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("booking_transition: internal error")
)
