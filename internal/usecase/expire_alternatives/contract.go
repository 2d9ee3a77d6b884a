package expire_alternatives

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ExpireAlternatives переводит не более limit просроченных альтернатив в alternative_expired
	ExpireAlternatives(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error)
}

// Notifier отправляет уведомления о переходах бронирования
type Notifier interface {
	BookingChanged(ctx context.Context, action domain.Action, booking *domain.Booking, actor domain.Actor, now time.Time)
}

// MetricsRecorder учитывает истекшие альтернативы
type MetricsRecorder interface {
	RecordExpired(count int)
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
