package request_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// AvailabilityRepository интерфейс репозитория настроек доступности
type AvailabilityRepository interface {
	GetSettings(ctx context.Context, vendorID int64) (*domain.AvailabilitySettings, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// PriceCalculator рассчитывает стоимость, фиксируемую в бронировании
type PriceCalculator interface {
	Breakdown(ctx context.Context, service *catalogservice.Service, pricingOptionID *int64, start, end time.Time) (*domain.PriceBreakdown, error)
}

// Notifier отправляет уведомления о переходах бронирования
type Notifier interface {
	BookingChanged(ctx context.Context, action domain.Action, booking *domain.Booking, actor domain.Actor, now time.Time)
}

// MetricsRecorder учитывает переходы бронирований
type MetricsRecorder interface {
	RecordTransition(action string, err error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
