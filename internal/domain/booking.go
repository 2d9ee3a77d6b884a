package domain

import (
	"time"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusAccepted            BookingStatus = "accepted"
	StatusRejected            BookingStatus = "rejected"
	StatusAlternativeProposed BookingStatus = "alternative_proposed"
	StatusAlternativeAccepted BookingStatus = "alternative_accepted"
	StatusAlternativeExpired  BookingStatus = "alternative_expired"
	StatusInProgress          BookingStatus = "in_progress"
	StatusCompleted           BookingStatus = "completed"
	StatusCancelled           BookingStatus = "cancelled"
)

// AllStatuses lists every known booking status
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusAccepted,
	StatusRejected,
	StatusAlternativeProposed,
	StatusAlternativeAccepted,
	StatusAlternativeExpired,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsOccupying returns true if a booking in this status blocks the vendor's time
func (s BookingStatus) IsOccupying() bool {
	for _, occupying := range OccupyingStatuses {
		if s == occupying {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no transition leaves this status
func (s BookingStatus) IsTerminal() bool {
	for _, terminal := range TerminalStatuses {
		if s == terminal {
			return true
		}
	}
	return false
}

// Booking is a customer's request for a vendor's time window.
// Bookings are never deleted; they change only through lifecycle transitions.
type Booking struct {
	ID              int64
	CustomerID      int64
	VendorID        int64
	ServiceID       int64
	PricingOptionID *int64

	RequestedStartTime time.Time
	RequestedEndTime   time.Time
	Status             BookingStatus

	// Set only while the booking is alternative_proposed
	AlternativeStartTime *time.Time
	AlternativeEndTime   *time.Time
	AlternativeExpiresAt *time.Time

	CustomerNotes *string
	VendorNotes   *string
	CancelReason  *string
	CancelledBy   *Role
	RejectReason  *string

	// Frozen at request time
	PriceBreakdown PriceBreakdown

	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// Duration returns the length of the requested window
func (b *Booking) Duration() time.Duration {
	return b.RequestedEndTime.Sub(b.RequestedStartTime)
}

// Overlaps reports whether the requested window intersects [start, end)
func (b *Booking) Overlaps(start, end time.Time) bool {
	return Overlaps(b.RequestedStartTime, b.RequestedEndTime, start, end)
}

// HasAlternative returns true if an alternative window is attached
func (b *Booking) HasAlternative() bool {
	return b.AlternativeStartTime != nil && b.AlternativeEndTime != nil
}

// IsAlternativeExpired returns true when the alternative deadline has passed at now
func (b *Booking) IsAlternativeExpired(now time.Time) bool {
	return b.AlternativeExpiresAt != nil && now.After(*b.AlternativeExpiresAt)
}

// ClearAlternative removes the proposed alternative window
func (b *Booking) ClearAlternative() {
	b.AlternativeStartTime = nil
	b.AlternativeEndTime = nil
	b.AlternativeExpiresAt = nil
}

// IsParticipant returns true if the actor is the booking's customer or vendor
func (b *Booking) IsParticipant(actor Actor) bool {
	switch actor.Role {
	case RoleCustomer:
		return b.CustomerID == actor.UserID
	case RoleVendor:
		return b.VendorID == actor.UserID
	case RoleSystem:
		return true
	default:
		return false
	}
}

// Overlaps reports whether half-open intervals [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// OverlapFilter selects bookings whose window intersects [Start, End)
type OverlapFilter struct {
	VendorID  int64
	ServiceID *int64 // nil = all services of the vendor
	Start     time.Time
	End       time.Time
	Statuses  []BookingStatus
	ExcludeID *int64
}

// BookingsFilter фильтр для списков бронирований клиента или исполнителя
type BookingsFilter struct {
	CustomerID *int64
	VendorID   *int64
	ServiceID  *int64
	Status     *BookingStatus
	From       *time.Time // requested_start_time >= From
	To         *time.Time // requested_start_time < To
	Limit      int
	Offset     int
}

// Normalize clamps pagination to the allowed range
func (f *BookingsFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
