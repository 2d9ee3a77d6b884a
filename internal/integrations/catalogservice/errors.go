package catalogservice

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("catalogservice client: service not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что каталог недоступен и следует использовать комиссию из конфигурации
	ErrServiceDegraded = errors.New("catalogservice unavailable: graceful degradation applied")
)
