package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
)

// AvailabilityRepository интерфейс репозитория настроек доступности
type AvailabilityRepository interface {
	GetSettings(ctx context.Context, vendorID int64) (*domain.AvailabilitySettings, error)
	// ListBlocks получает блокировки, пересекающиеся с [start, end), для услуги и общие для исполнителя
	ListBlocks(ctx context.Context, vendorID int64, start, end time.Time, serviceID *int64) ([]*domain.CalendarBlock, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	FindOverlapping(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Booking, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
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
