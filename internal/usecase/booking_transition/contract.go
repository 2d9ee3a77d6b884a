package booking_transition

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByID внутри транзакции блокирует строку (FOR UPDATE)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	FindOverlapping(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Booking, error)
	// ApplyTransition сохраняет бронирование, только если его статус всё ещё равен from
	ApplyTransition(ctx context.Context, booking *domain.Booking, from domain.BookingStatus) error
}

// AvailabilityRepository интерфейс репозитория настроек доступности
type AvailabilityRepository interface {
	GetSettings(ctx context.Context, vendorID int64) (*domain.AvailabilitySettings, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
