package events

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MessageWriter интерфейс записи сообщений в Kafka (реализуется *kafka.Writer)
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher интерфейс публикации исходящих сообщений
type Publisher interface {
	PublishBookingEvent(ctx context.Context, event domain.BookingEvent) error
	PublishPaymentRequest(ctx context.Context, request domain.PaymentRequest) error
}
