package booking_transition

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// memoryBookings хранилище бронирований в памяти с compare-and-set по статусу
type memoryBookings struct {
	rows map[int64]domain.Booking

	// applyErr, если задана, возвращается из ApplyTransition вместо записи
	applyErr error
}

func newMemoryBookings(bookings ...domain.Booking) *memoryBookings {
	m := &memoryBookings{rows: make(map[int64]domain.Booking)}
	for _, b := range bookings {
		m.rows[b.ID] = b
	}
	return m
}

func (m *memoryBookings) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", bookingRepo.ErrBookingNotFound, id)
	}
	return &b, nil
}

func (m *memoryBookings) FindOverlapping(_ context.Context, filter domain.OverlapFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range m.rows {
		if b.VendorID != filter.VendorID {
			continue
		}
		if filter.ServiceID != nil && b.ServiceID != *filter.ServiceID {
			continue
		}
		if filter.ExcludeID != nil && b.ID == *filter.ExcludeID {
			continue
		}
		if !hasStatus(filter.Statuses, b.Status) || !b.Overlaps(filter.Start, filter.End) {
			continue
		}
		b := b
		result = append(result, &b)
	}
	return result, nil
}

func (m *memoryBookings) ApplyTransition(_ context.Context, booking *domain.Booking, from domain.BookingStatus) error {
	if m.applyErr != nil {
		return m.applyErr
	}
	current, ok := m.rows[booking.ID]
	if !ok || current.Status != from {
		return fmt.Errorf("%w: id=%d", bookingRepo.ErrStatusChanged, booking.ID)
	}
	m.rows[booking.ID] = *booking
	return nil
}

func (m *memoryBookings) get(t *testing.T, id int64) domain.Booking {
	t.Helper()
	b, ok := m.rows[id]
	require.True(t, ok, "booking %d not stored", id)
	return b
}

func hasStatus(statuses []domain.BookingStatus, status domain.BookingStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type stubAvailability struct {
	settings *domain.AvailabilitySettings
}

func (s *stubAvailability) GetSettings(_ context.Context, vendorID int64) (*domain.AvailabilitySettings, error) {
	if s.settings == nil {
		return nil, availabilityRepo.ErrSettingsNotFound
	}
	return s.settings, nil
}

// recordingTxManager выполняет fn без транзакции и запоминает уровень изоляции
type recordingTxManager struct {
	serializable int
	plain        int
}

func (r *recordingTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	r.plain++
	return fn(ctx)
}

func (r *recordingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	r.serializable++
	return fn(ctx)
}

type notification struct {
	action domain.Action
	status domain.BookingStatus
	actor  domain.Actor
}

type recordingNotifier struct {
	sent []notification
}

func (r *recordingNotifier) BookingChanged(_ context.Context, action domain.Action, booking *domain.Booking, actor domain.Actor, _ time.Time) {
	r.sent = append(r.sent, notification{action: action, status: booking.Status, actor: actor})
}

type recordedTransition struct {
	action string
	err    error
}

type fakeMetrics struct {
	transitions []recordedTransition
}

func (f *fakeMetrics) RecordTransition(action string, err error) {
	f.transitions = append(f.transitions, recordedTransition{action: action, err: err})
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const alternativeTTL = 24 * time.Hour

var (
	now      = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	slot     = time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	customer = domain.Actor{UserID: 10, Role: domain.RoleCustomer}
	vendor   = domain.Actor{UserID: 20, Role: domain.RoleVendor}
)

type fixture struct {
	uc       *UseCase
	bookings *memoryBookings
	settings *stubAvailability
	tx       *recordingTxManager
	notifier *recordingNotifier
	metrics  *fakeMetrics
}

func newFixture(bookings ...domain.Booking) *fixture {
	f := &fixture{
		bookings: newMemoryBookings(bookings...),
		settings: &stubAvailability{},
		tx:       &recordingTxManager{},
		notifier: &recordingNotifier{},
		metrics:  &fakeMetrics{},
	}
	f.uc = NewUseCase(f.bookings, f.settings, f.tx, f.notifier, f.metrics, alternativeTTL, fixedTime{now: now}, nopLogger{})
	return f
}

func booking(id int64, status domain.BookingStatus, start time.Time) domain.Booking {
	return domain.Booking{
		ID:                 id,
		CustomerID:         customer.UserID,
		VendorID:           vendor.UserID,
		ServiceID:          30,
		RequestedStartTime: start,
		RequestedEndTime:   start.Add(time.Hour),
		Status:             status,
		PriceBreakdown: domain.PriceBreakdown{
			Currency: "USD",
			Subtotal: ptr.Ptr(100.0),
			Total:    ptr.Ptr(110.0),
		},
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now.Add(-time.Hour),
	}
}

func withAlternative(b domain.Booking, start, expiresAt time.Time) domain.Booking {
	b.AlternativeStartTime = ptr.Ptr(start)
	b.AlternativeEndTime = ptr.Ptr(start.Add(time.Hour))
	b.AlternativeExpiresAt = ptr.Ptr(expiresAt)
	return b
}

func TestUseCase_Accept(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, slot))

		result, err := f.uc.Accept(context.Background(), 1, vendor, &AcceptRequest{VendorNotes: ptr.Ptr("see you")})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusAccepted, result.Status)
		assert.Equal(t, now, result.UpdatedAt)
		assert.Equal(t, "see you", *result.VendorNotes)

		stored := f.bookings.get(t, 1)
		assert.Equal(t, domain.StatusAccepted, stored.Status)

		assert.Equal(t, 1, f.tx.serializable)
		require.Len(t, f.notifier.sent, 1)
		assert.Equal(t, notification{action: domain.ActionAccept, status: domain.StatusAccepted, actor: vendor}, f.notifier.sent[0])
		require.Len(t, f.metrics.transitions, 1)
		assert.NoError(t, f.metrics.transitions[0].err)
	})

	t.Run("Second Overlapping Accept Conflicts", func(t *testing.T) {
		f := newFixture(
			booking(1, domain.StatusPending, slot),
			booking(2, domain.StatusPending, slot.Add(30*time.Minute)),
		)

		_, err := f.uc.Accept(context.Background(), 1, vendor, &AcceptRequest{})
		require.NoError(t, err)

		_, err = f.uc.Accept(context.Background(), 2, vendor, &AcceptRequest{})

		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, domain.StatusAccepted, f.bookings.get(t, 1).Status)
		assert.Equal(t, domain.StatusPending, f.bookings.get(t, 2).Status)
		assert.Len(t, f.notifier.sent, 1)
	})

	t.Run("Adjacent Window Does Not Conflict", func(t *testing.T) {
		f := newFixture(
			booking(1, domain.StatusAccepted, slot),
			booking(2, domain.StatusPending, slot.Add(time.Hour)),
		)

		result, err := f.uc.Accept(context.Background(), 2, vendor, &AcceptRequest{})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusAccepted, result.Status)
	})

	t.Run("Other Service Does Not Conflict By Default", func(t *testing.T) {
		other := booking(1, domain.StatusAccepted, slot)
		other.ServiceID = 31
		f := newFixture(other, booking(2, domain.StatusPending, slot))

		_, err := f.uc.Accept(context.Background(), 2, vendor, &AcceptRequest{})

		assert.NoError(t, err)
	})

	t.Run("Vendor Scope Conflicts Across Services", func(t *testing.T) {
		other := booking(1, domain.StatusInProgress, slot)
		other.ServiceID = 31
		f := newFixture(other, booking(2, domain.StatusPending, slot))
		settings := domain.DefaultAvailabilitySettings(vendor.UserID)
		settings.ConflictScope = domain.ConflictScopeVendor
		f.settings.settings = settings

		_, err := f.uc.Accept(context.Background(), 2, vendor, &AcceptRequest{})

		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("Non Occupying Bookings Do Not Conflict", func(t *testing.T) {
		f := newFixture(
			booking(1, domain.StatusCancelled, slot),
			booking(2, domain.StatusRejected, slot),
			booking(3, domain.StatusPending, slot),
		)

		_, err := f.uc.Accept(context.Background(), 3, vendor, &AcceptRequest{})

		assert.NoError(t, err)
	})

	t.Run("Customer Cannot Accept", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, slot))

		_, err := f.uc.Accept(context.Background(), 1, customer, &AcceptRequest{})

		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Equal(t, domain.StatusPending, f.bookings.get(t, 1).Status)
		assert.Empty(t, f.notifier.sent)
		require.Len(t, f.metrics.transitions, 1)
		assert.ErrorIs(t, f.metrics.transitions[0].err, ErrAccessDenied)
	})

	t.Run("Other Vendor Denied Before State Check", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusCompleted, slot))

		_, err := f.uc.Accept(context.Background(), 1, domain.Actor{UserID: 99, Role: domain.RoleVendor}, &AcceptRequest{})

		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.NotErrorIs(t, err, domain.ErrInvalidStateTransition)
	})

	t.Run("Not Found", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.Accept(context.Background(), 404, vendor, &AcceptRequest{})

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("Already Accepted", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusAccepted, slot))

		_, err := f.uc.Accept(context.Background(), 1, vendor, &AcceptRequest{})

		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})

	t.Run("Status Changed Concurrently", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, slot))
		f.bookings.applyErr = fmt.Errorf("%w: id=1", bookingRepo.ErrStatusChanged)

		_, err := f.uc.Accept(context.Background(), 1, vendor, &AcceptRequest{})

		assert.ErrorIs(t, err, ErrConflict)
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("Exclusion Constraint Violation", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, slot))
		f.bookings.applyErr = fmt.Errorf("%w: exclusion", bookingRepo.ErrOverlap)

		_, err := f.uc.Accept(context.Background(), 1, vendor, &AcceptRequest{})

		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("Serialization Retries Exhausted", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, slot))
		f.bookings.applyErr = fmt.Errorf("%w: update: %w", bookingRepo.ErrExecQuery, &pq.Error{Code: "40001"})

		_, err := f.uc.Accept(context.Background(), 1, vendor, &AcceptRequest{})

		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("Storage Failure", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, slot))
		f.bookings.applyErr = errors.New("connection reset")

		_, err := f.uc.Accept(context.Background(), 1, vendor, &AcceptRequest{})

		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("Notes Too Long", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, slot))
		notes := string(make([]byte, domain.MaxNotesLength+1))

		_, err := f.uc.Accept(context.Background(), 1, vendor, &AcceptRequest{VendorNotes: &notes})

		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Zero(t, f.tx.serializable)
	})
}

func TestUseCase_Reject(t *testing.T) {
	t.Run("Success With Reason", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, slot))

		result, err := f.uc.Reject(context.Background(), 1, vendor, &RejectRequest{Reason: ptr.Ptr("fully booked")})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, result.Status)
		assert.Equal(t, "fully booked", *result.RejectReason)
		assert.Equal(t, 1, f.tx.plain)
		assert.Zero(t, f.tx.serializable)
	})

	t.Run("Reason Is Optional", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, slot))

		result, err := f.uc.Reject(context.Background(), 1, vendor, &RejectRequest{})

		require.NoError(t, err)
		assert.Nil(t, result.RejectReason)
	})

	t.Run("Reason Too Long", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, slot))
		reason := string(make([]byte, domain.MaxReasonLength+1))

		_, err := f.uc.Reject(context.Background(), 1, vendor, &RejectRequest{Reason: &reason})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUseCase_ProposeAlternative(t *testing.T) {
	alternative := slot.Add(48 * time.Hour)

	t.Run("Default Expiry", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, slot))

		result, err := f.uc.ProposeAlternative(context.Background(), 1, vendor, &ProposeAlternativeRequest{
			StartTime: alternative,
			EndTime:   alternative.Add(time.Hour),
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusAlternativeProposed, result.Status)
		assert.Equal(t, alternative, *result.AlternativeStartTime)
		assert.Equal(t, alternative.Add(time.Hour), *result.AlternativeEndTime)
		assert.Equal(t, now.Add(alternativeTTL), *result.AlternativeExpiresAt)
		assert.Equal(t, slot, result.RequestedStartTime)
	})

	t.Run("Default Expiry Capped By Alternative Start", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, slot))
		soon := now.Add(3 * time.Hour)

		result, err := f.uc.ProposeAlternative(context.Background(), 1, vendor, &ProposeAlternativeRequest{
			StartTime: soon,
			EndTime:   soon.Add(time.Hour),
		})

		require.NoError(t, err)
		assert.Equal(t, soon, *result.AlternativeExpiresAt)
	})

	t.Run("Expiry Hours", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, slot))

		result, err := f.uc.ProposeAlternative(context.Background(), 1, vendor, &ProposeAlternativeRequest{
			StartTime:   alternative,
			EndTime:     alternative.Add(time.Hour),
			ExpiryHours: ptr.Ptr(6),
		})

		require.NoError(t, err)
		assert.Equal(t, now.Add(6*time.Hour), *result.AlternativeExpiresAt)
	})

	t.Run("Invalid Window", func(t *testing.T) {
		tests := []struct {
			name string
			req  ProposeAlternativeRequest
		}{
			{name: "End Before Start", req: ProposeAlternativeRequest{StartTime: alternative, EndTime: alternative.Add(-time.Minute)}},
			{name: "In The Past", req: ProposeAlternativeRequest{StartTime: now.Add(-time.Hour), EndTime: now}},
			{name: "Too Long", req: ProposeAlternativeRequest{StartTime: alternative, EndTime: alternative.Add(25 * time.Hour)}},
			{name: "Expiry In The Past", req: ProposeAlternativeRequest{StartTime: alternative, EndTime: alternative.Add(time.Hour), ExpiresAt: ptr.Ptr(now)}},
			{name: "Zero Expiry Hours", req: ProposeAlternativeRequest{StartTime: alternative, EndTime: alternative.Add(time.Hour), ExpiryHours: ptr.Ptr(0)}},
			{name: "Expiry Hours Above Limit", req: ProposeAlternativeRequest{StartTime: alternative, EndTime: alternative.Add(time.Hour), ExpiryHours: ptr.Ptr(domain.MaxAlternativeExpiryHours + 1)}},
			{name: "Huge Expiry Hours", req: ProposeAlternativeRequest{StartTime: alternative, EndTime: alternative.Add(time.Hour), ExpiryHours: ptr.Ptr(3_000_000)}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(booking(1, domain.StatusPending, slot))

				_, err := f.uc.ProposeAlternative(context.Background(), 1, vendor, &tt.req)

				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Equal(t, domain.StatusPending, f.bookings.get(t, 1).Status)
			})
		}
	})
}

func TestAlternativeExpiry(t *testing.T) {
	alternative := slot.Add(48 * time.Hour)

	t.Run("Expiry Hours At Limit", func(t *testing.T) {
		req := &ProposeAlternativeRequest{StartTime: alternative, EndTime: alternative.Add(time.Hour), ExpiryHours: ptr.Ptr(domain.MaxAlternativeExpiryHours)}

		expiresAt, err := alternativeExpiry(req, now, alternativeTTL)

		require.NoError(t, err)
		assert.Equal(t, now.Add(time.Duration(domain.MaxAlternativeExpiryHours)*time.Hour), expiresAt)
	})

	t.Run("Computed Expiry Not In Future", func(t *testing.T) {
		req := &ProposeAlternativeRequest{StartTime: alternative, EndTime: alternative.Add(time.Hour)}

		_, err := alternativeExpiry(req, now, 0)

		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Overflowing Expiry Hours", func(t *testing.T) {
		req := &ProposeAlternativeRequest{StartTime: alternative, EndTime: alternative.Add(time.Hour), ExpiryHours: ptr.Ptr(3_000_000)}

		_, err := alternativeExpiry(req, now, alternativeTTL)

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUseCase_AcceptAlternative(t *testing.T) {
	alternative := slot.Add(48 * time.Hour)

	t.Run("Replaces Window And Keeps Price", func(t *testing.T) {
		proposed := withAlternative(booking(1, domain.StatusAlternativeProposed, slot), alternative, now.Add(time.Hour))
		f := newFixture(proposed)

		result, err := f.uc.AcceptAlternative(context.Background(), 1, customer)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusAlternativeAccepted, result.Status)
		assert.Equal(t, alternative, result.RequestedStartTime)
		assert.Equal(t, alternative.Add(time.Hour), result.RequestedEndTime)
		assert.False(t, result.HasAlternative())
		assert.Nil(t, result.AlternativeExpiresAt)
		assert.Equal(t, proposed.PriceBreakdown, result.PriceBreakdown)
		assert.Equal(t, 1, f.tx.serializable)
	})

	t.Run("Expired", func(t *testing.T) {
		f := newFixture(withAlternative(booking(1, domain.StatusAlternativeProposed, slot), alternative, now.Add(-time.Minute)))

		_, err := f.uc.AcceptAlternative(context.Background(), 1, customer)

		assert.ErrorIs(t, err, ErrAlternativeExpired)
		assert.Equal(t, domain.StatusAlternativeProposed, f.bookings.get(t, 1).Status)
	})

	t.Run("Alternative Window Taken", func(t *testing.T) {
		f := newFixture(
			withAlternative(booking(1, domain.StatusAlternativeProposed, slot), alternative, now.Add(time.Hour)),
			booking(2, domain.StatusAccepted, alternative.Add(30*time.Minute)),
		)

		_, err := f.uc.AcceptAlternative(context.Background(), 1, customer)

		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("Vendor Cannot Accept Alternative", func(t *testing.T) {
		f := newFixture(withAlternative(booking(1, domain.StatusAlternativeProposed, slot), alternative, now.Add(time.Hour)))

		_, err := f.uc.AcceptAlternative(context.Background(), 1, vendor)

		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestUseCase_Cancel(t *testing.T) {
	t.Run("Customer Cancels Proposed Alternative", func(t *testing.T) {
		f := newFixture(withAlternative(booking(1, domain.StatusAlternativeProposed, slot), slot.Add(48*time.Hour), now.Add(time.Hour)))

		result, err := f.uc.Cancel(context.Background(), 1, customer, &CancelRequest{Reason: "changed plans"})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, result.Status)
		assert.Equal(t, "changed plans", *result.CancelReason)
		assert.Equal(t, domain.RoleCustomer, *result.CancelledBy)
		assert.Equal(t, now, *result.CancelledAt)
		assert.False(t, result.HasAlternative())
		assert.Nil(t, result.AlternativeExpiresAt)
	})

	t.Run("Vendor Cancels Accepted", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusAccepted, slot))

		result, err := f.uc.Cancel(context.Background(), 1, vendor, &CancelRequest{Reason: "sick"})

		require.NoError(t, err)
		assert.Equal(t, domain.RoleVendor, *result.CancelledBy)
	})

	t.Run("Reason Required", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, slot))

		_, err := f.uc.Cancel(context.Background(), 1, customer, &CancelRequest{Reason: "   "})

		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Zero(t, f.tx.plain)
	})

	t.Run("Completed Booking Is Unchanged", func(t *testing.T) {
		completed := booking(1, domain.StatusCompleted, slot)
		completed.CompletedAt = ptr.Ptr(slot.Add(time.Hour))
		f := newFixture(completed)

		_, err := f.uc.Cancel(context.Background(), 1, customer, &CancelRequest{Reason: "too late"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
		assert.Equal(t, completed, f.bookings.get(t, 1))
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("In Progress Cannot Be Cancelled", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusInProgress, slot))

		_, err := f.uc.Cancel(context.Background(), 1, vendor, &CancelRequest{Reason: "stop"})

		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})

	t.Run("Stranger Denied", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, slot))

		_, err := f.uc.Cancel(context.Background(), 1, domain.Actor{UserID: 11, Role: domain.RoleCustomer}, &CancelRequest{Reason: "x"})

		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestUseCase_Start(t *testing.T) {
	t.Run("Too Early", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusAccepted, slot))

		_, err := f.uc.Start(context.Background(), 1, vendor, &StartRequest{})

		assert.ErrorIs(t, err, ErrTooEarlyToStart)
		assert.Equal(t, domain.StatusAccepted, f.bookings.get(t, 1).Status)
	})

	t.Run("Override", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusAccepted, slot))

		result, err := f.uc.Start(context.Background(), 1, vendor, &StartRequest{Override: true})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, result.Status)
		assert.Equal(t, now, *result.StartedAt)
		assert.Zero(t, f.tx.serializable)
	})

	t.Run("Window Started", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusAlternativeAccepted, now.Add(-10*time.Minute)))

		result, err := f.uc.Start(context.Background(), 1, vendor, &StartRequest{})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, result.Status)
	})

	t.Run("Pending Cannot Start", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusPending, now.Add(-time.Hour)))

		_, err := f.uc.Start(context.Background(), 1, vendor, &StartRequest{})

		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})
}

func TestUseCase_Complete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusInProgress, now.Add(-time.Hour)))

		result, err := f.uc.Complete(context.Background(), 1, vendor)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, result.Status)
		assert.Equal(t, now, *result.CompletedAt)
		require.Len(t, f.notifier.sent, 1)
		assert.Equal(t, domain.ActionComplete, f.notifier.sent[0].action)
	})

	t.Run("Customer Cannot Complete", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusInProgress, now.Add(-time.Hour)))

		_, err := f.uc.Complete(context.Background(), 1, customer)

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("Accepted Cannot Complete", func(t *testing.T) {
		f := newFixture(booking(1, domain.StatusAccepted, now.Add(-time.Hour)))

		_, err := f.uc.Complete(context.Background(), 1, vendor)

		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})
}
