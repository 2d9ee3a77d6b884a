package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
)

// NewKafkaWriter создает writer для публикации в несколько топиков
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
}

// KafkaPublisher публикует события бронирований и запросы на оплату в Kafka.
// Ключ сообщения - ID бронирования, поэтому события одного бронирования упорядочены.
type KafkaPublisher struct {
	writer             MessageWriter
	notificationsTopic string
	paymentsTopic      string
	writeTimeout       time.Duration
	metrics            *metrics.Metrics
	log                Logger
}

// NewKafkaPublisher создает publisher. metrics может быть nil.
func NewKafkaPublisher(
	writer MessageWriter,
	notificationsTopic string,
	paymentsTopic string,
	writeTimeout time.Duration,
	m *metrics.Metrics,
	log Logger,
) *KafkaPublisher {
	return &KafkaPublisher{
		writer:             writer,
		notificationsTopic: notificationsTopic,
		paymentsTopic:      paymentsTopic,
		writeTimeout:       writeTimeout,
		metrics:            m,
		log:                log,
	}
}

// PublishBookingEvent публикует уведомление о смене статуса
func (p *KafkaPublisher) PublishBookingEvent(ctx context.Context, event domain.BookingEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	return p.publish(ctx, p.notificationsTopic, event.BookingID, event.OccurredAt, event)
}

// PublishPaymentRequest публикует запрос на оплату подтвержденного бронирования
func (p *KafkaPublisher) PublishPaymentRequest(ctx context.Context, request domain.PaymentRequest) error {
	if request.EventID == "" {
		request.EventID = uuid.NewString()
	}
	return p.publish(ctx, p.paymentsTopic, request.BookingID, request.OccurredAt, request)
}

// Close закрывает writer
func (p *KafkaPublisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

func (p *KafkaPublisher) publish(ctx context.Context, topic string, bookingID int64, at time.Time, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		p.metrics.RecordPublish(topic, err)
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	// Публикация идёт после коммита и не должна обрываться вместе с HTTP запросом
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.writeTimeout)
	defer cancel()

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(strconv.FormatInt(bookingID, 10)),
		Value: data,
		Time:  at,
	}

	err = p.writer.WriteMessages(writeCtx, message)
	p.metrics.RecordPublish(topic, err)
	if err != nil {
		return fmt.Errorf("%w: topic=%s booking id=%d: %v", ErrPublish, topic, bookingID, err)
	}

	p.log.Info("KafkaPublisher: published to topic=%s, booking id=%d", topic, bookingID)
	return nil
}

// LogPublisher пишет события в лог вместо брокера (Kafka выключена)
type LogPublisher struct {
	log Logger
}

// NewLogPublisher создает publisher, который только логирует сообщения
func NewLogPublisher(log Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

// PublishBookingEvent логирует уведомление
func (p *LogPublisher) PublishBookingEvent(_ context.Context, event domain.BookingEvent) error {
	p.log.Info("LogPublisher: event=%s, booking id=%d, recipient=%s:%d",
		event.Type, event.BookingID, event.RecipientRole, event.RecipientID)
	return nil
}

// PublishPaymentRequest логирует запрос на оплату
func (p *LogPublisher) PublishPaymentRequest(_ context.Context, request domain.PaymentRequest) error {
	p.log.Info("LogPublisher: payment request for booking id=%d, customer=%d, vendor=%d",
		request.BookingID, request.CustomerID, request.VendorID)
	return nil
}
