package domain

import "time"

// EventType names a booking lifecycle notification
type EventType string

const (
	EventBookingCreated             EventType = "booking.created"
	EventBookingAccepted            EventType = "booking.accepted"
	EventBookingRejected            EventType = "booking.rejected"
	EventBookingAlternativeProposed EventType = "booking.alternative_proposed"
	EventBookingAlternativeAccepted EventType = "booking.alternative_accepted"
	EventBookingAlternativeExpired  EventType = "booking.alternative_expired"
	EventBookingStarted             EventType = "booking.started"
	EventBookingCompleted           EventType = "booking.completed"
	EventBookingCancelled           EventType = "booking.cancelled"
)

var actionEvents = map[Action]EventType{
	ActionRequest:            EventBookingCreated,
	ActionAccept:             EventBookingAccepted,
	ActionReject:             EventBookingRejected,
	ActionProposeAlternative: EventBookingAlternativeProposed,
	ActionAcceptAlternative:  EventBookingAlternativeAccepted,
	ActionExpireAlternative:  EventBookingAlternativeExpired,
	ActionStart:              EventBookingStarted,
	ActionComplete:           EventBookingCompleted,
	ActionCancel:             EventBookingCancelled,
}

// EventTypeFor returns the notification type emitted after the action
func EventTypeFor(action Action) EventType {
	return actionEvents[action]
}

// BookingEvent is a notification about a lifecycle change.
// It carries both participant ids so consumers can open a chat thread.
type BookingEvent struct {
	EventID       string        `json:"eventId"`
	Type          EventType     `json:"type"`
	BookingID     int64         `json:"bookingId"`
	CustomerID    int64         `json:"customerId"`
	VendorID      int64         `json:"vendorId"`
	ServiceID     int64         `json:"serviceId"`
	Status        BookingStatus `json:"status"`
	RecipientID   int64         `json:"recipientId"`
	RecipientRole Role          `json:"recipientRole"`
	StartTime     time.Time     `json:"startTime"`
	EndTime       time.Time     `json:"endTime"`

	AlternativeStartTime *time.Time `json:"alternativeStartTime,omitempty"`
	AlternativeEndTime   *time.Time `json:"alternativeEndTime,omitempty"`
	AlternativeExpiresAt *time.Time `json:"alternativeExpiresAt,omitempty"`
	Reason               *string    `json:"reason,omitempty"`

	OccurredAt time.Time `json:"occurredAt"`
}

// PaymentRequest asks the payment collaborator to charge the frozen price
type PaymentRequest struct {
	EventID        string         `json:"eventId"`
	BookingID      int64          `json:"bookingId"`
	CustomerID     int64          `json:"customerId"`
	VendorID       int64          `json:"vendorId"`
	PriceBreakdown PriceBreakdown `json:"priceBreakdown"`
	OccurredAt     time.Time      `json:"occurredAt"`
}

// NotificationRecipients returns who should hear about the action performed by actor
func NotificationRecipients(action Action, b *Booking, actor Actor) []Actor {
	customer := Actor{UserID: b.CustomerID, Role: RoleCustomer}
	vendor := Actor{UserID: b.VendorID, Role: RoleVendor}

	switch action {
	case ActionRequest, ActionAcceptAlternative:
		return []Actor{vendor}
	case ActionAccept, ActionReject, ActionProposeAlternative, ActionStart, ActionComplete:
		return []Actor{customer}
	case ActionExpireAlternative:
		return []Actor{customer, vendor}
	case ActionCancel:
		if actor.Role == RoleVendor {
			return []Actor{customer}
		}
		return []Actor{vendor}
	default:
		return nil
	}
}

// NewBookingEvent builds the notification for one recipient
func NewBookingEvent(action Action, b *Booking, recipient Actor, occurredAt time.Time) BookingEvent {
	event := BookingEvent{
		Type:                 EventTypeFor(action),
		BookingID:            b.ID,
		CustomerID:           b.CustomerID,
		VendorID:             b.VendorID,
		ServiceID:            b.ServiceID,
		Status:               b.Status,
		RecipientID:          recipient.UserID,
		RecipientRole:        recipient.Role,
		StartTime:            b.RequestedStartTime,
		EndTime:              b.RequestedEndTime,
		AlternativeStartTime: b.AlternativeStartTime,
		AlternativeEndTime:   b.AlternativeEndTime,
		AlternativeExpiresAt: b.AlternativeExpiresAt,
		OccurredAt:           occurredAt,
	}

	switch action {
	case ActionCancel:
		event.Reason = b.CancelReason
	case ActionReject:
		event.Reason = b.RejectReason
	}

	return event
}

// NewPaymentRequest builds the payment request for an accepted booking
func NewPaymentRequest(b *Booking, occurredAt time.Time) PaymentRequest {
	return PaymentRequest{
		BookingID:      b.ID,
		CustomerID:     b.CustomerID,
		VendorID:       b.VendorID,
		PriceBreakdown: b.PriceBreakdown,
		OccurredAt:     occurredAt,
	}
}
