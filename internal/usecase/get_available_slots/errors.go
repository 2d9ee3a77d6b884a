package get_available_slots

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrServiceInactive возвращается, когда услуга снята с публикации
	ErrServiceInactive = errors.New("get_available_slots: service is not active")

	// ErrPricingOptionNotFound возвращается, когда вариант цены не найден у услуги
	ErrPricingOptionNotFound = errors.New("get_available_slots: pricing option not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
