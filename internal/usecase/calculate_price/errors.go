package calculate_price

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("calculate_price: service not found")

	// ErrPricingOptionNotFound возвращается, когда вариант цены не найден у услуги
	ErrPricingOptionNotFound = errors.New("calculate_price: pricing option not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("calculate_price: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("calculate_price: internal error")
)
