package events

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Notifier раскладывает переход бронирования на исходящие сообщения.
// Вызывается после коммита; ошибки публикации логируются и не возвращаются.
type Notifier struct {
	publisher Publisher
	log       Logger
}

// NewNotifier создает Notifier
func NewNotifier(publisher Publisher, log Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		log:       log,
	}
}

// BookingChanged отправляет уведомления участникам и, после подтверждения, запрос на оплату
func (n *Notifier) BookingChanged(ctx context.Context, action domain.Action, booking *domain.Booking, actor domain.Actor, now time.Time) {
	for _, recipient := range domain.NotificationRecipients(action, booking, actor) {
		event := domain.NewBookingEvent(action, booking, recipient, now)
		if err := n.publisher.PublishBookingEvent(ctx, event); err != nil {
			n.log.Error("Notifier.BookingChanged: failed to publish %s for booking id=%d to %s:%d: %v",
				event.Type, booking.ID, recipient.Role, recipient.UserID, err)
		}
	}

	if action != domain.ActionAccept && action != domain.ActionAcceptAlternative {
		return
	}

	if booking.PriceBreakdown.RequiresQuote() {
		n.log.Info("Notifier.BookingChanged: booking id=%d requires manual quote, payment request skipped", booking.ID)
		return
	}

	if err := n.publisher.PublishPaymentRequest(ctx, domain.NewPaymentRequest(booking, now)); err != nil {
		n.log.Error("Notifier.BookingChanged: failed to publish payment request for booking id=%d: %v", booking.ID, err)
	}
}
