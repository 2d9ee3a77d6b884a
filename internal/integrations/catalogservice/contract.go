package catalogservice

import "context"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ServiceCache кэш карточек услуг.
// GetService возвращает nil, nil при промахе.
type ServiceCache interface {
	GetService(ctx context.Context, serviceID int64) (*Service, error)
	SetService(ctx context.Context, service *Service) error
}
