package booking

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

var (
	testStart = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	testEnd   = testStart.Add(time.Hour)
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func bookingRow(id int64, status domain.BookingStatus, createdAt time.Time) []driver.Value {
	return []driver.Value{
		id, int64(10), int64(20), int64(30), nil,
		testStart, testEnd, string(status),
		nil, nil, nil,
		"please call", nil, nil, nil, nil,
		[]byte(`{"pricingModel":"fixed","basePrice":100,"durationUnits":1,"subtotal":100,"platformFeePercent":10,"platformFee":10,"total":110,"currency":"USD"}`),
		createdAt, createdAt, nil, nil, nil,
	}
}

func TestCreate(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO bookings .* RETURNING id`).
		WithArgs(int64(10), int64(20), int64(30), nil, testStart, testEnd, "pending", nil, sqlmock.AnyArg(), now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(77)))

	created, err := repo.Create(context.Background(), &domain.Booking{
		CustomerID:         10,
		VendorID:           20,
		ServiceID:          30,
		RequestedStartTime: testStart,
		RequestedEndTime:   testEnd,
		Status:             domain.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(`SELECT id, customer_id, .* FROM bookings WHERE id = \$1$`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(bookingRow(1, domain.StatusPending, now)...))

		b, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, b.Status)
		assert.Equal(t, testStart, b.RequestedStartTime)
		assert.Nil(t, b.PricingOptionID)
		assert.Nil(t, b.AlternativeStartTime)
		require.NotNil(t, b.CustomerNotes)
		assert.Equal(t, "please call", *b.CustomerNotes)
		require.NotNil(t, b.PriceBreakdown.Total)
		assert.Equal(t, 110.0, *b.PriceBreakdown.Total)
		assert.Equal(t, now, b.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(`FROM bookings WHERE id = \$1`).
			WithArgs(int64(2)).
			WillReturnError(sql.ErrNoRows)

		b, err := repo.GetByID(ctx, 2)
		assert.ErrorIs(t, err, ErrBookingNotFound)
		assert.Nil(t, b)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(`FROM bookings`).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.GetByID(ctx, 3)
		assert.ErrorIs(t, err, ErrExecQuery)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestFindOverlapping(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`FROM bookings WHERE vendor_id = \$1 AND requested_start_time < \$2 AND requested_end_time > \$3 AND service_id = \$4 AND status IN \(\$5,\$6,\$7\) AND id <> \$8 ORDER BY requested_start_time ASC, id ASC`).
		WithArgs(int64(20), testEnd, testStart, int64(30), "accepted", "alternative_accepted", "in_progress", int64(5)).
		WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(bookingRow(4, domain.StatusAccepted, now)...))

	found, err := repo.FindOverlapping(context.Background(), domain.OverlapFilter{
		VendorID:  20,
		ServiceID: ptr.Ptr(int64(30)),
		Start:     testStart,
		End:       testEnd,
		Statuses:  domain.OccupyingStatuses,
		ExcludeID: ptr.Ptr(int64(5)),
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(4), found[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransition(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	accepted := func() *domain.Booking {
		return &domain.Booking{
			ID:                 9,
			RequestedStartTime: testStart,
			RequestedEndTime:   testEnd,
			Status:             domain.StatusAccepted,
			UpdatedAt:          now,
		}
	}

	t.Run("Success", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec(`UPDATE bookings SET status = \$1, .* WHERE id = \$15 AND status = \$16`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.ApplyTransition(ctx, accepted(), domain.StatusPending))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Status Changed", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec(`UPDATE bookings`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ApplyTransition(ctx, accepted(), domain.StatusPending)
		assert.ErrorIs(t, err, ErrStatusChanged)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Exclusion Violation", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec(`UPDATE bookings`).
			WillReturnError(&pq.Error{Code: "23P01", Message: "conflicting key value violates exclusion constraint"})

		err := repo.ApplyTransition(ctx, accepted(), domain.StatusPending)
		assert.ErrorIs(t, err, ErrOverlap)
	})

	t.Run("Serialization Failure Keeps Driver Error", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec(`UPDATE bookings`).
			WillReturnError(&pq.Error{Code: "40001", Message: "could not serialize access"})

		err := repo.ApplyTransition(ctx, accepted(), domain.StatusPending)
		assert.ErrorIs(t, err, ErrExecQuery)

		var pqErr *pq.Error
		require.True(t, errors.As(err, &pqErr))
		assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
	})
}

func TestExpireAlternatives(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE bookings SET status = \$1, alternative_start_time = \$2, alternative_end_time = \$3, alternative_expires_at = \$4, updated_at = \$5 WHERE status = \$6 AND id IN \(SELECT id FROM bookings WHERE status = \$7 AND alternative_expires_at < \$8 ORDER BY alternative_expires_at ASC LIMIT 100 FOR UPDATE SKIP LOCKED\) RETURNING id, customer_id`).
		WithArgs("alternative_expired", nil, nil, nil, now, "alternative_proposed", "alternative_proposed", now).
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(bookingRow(1, domain.StatusAlternativeExpired, now)...).
			AddRow(bookingRow(2, domain.StatusAlternativeExpired, now)...))

	expired, err := repo.ExpireAlternatives(context.Background(), now, 100)
	require.NoError(t, err)
	require.Len(t, expired, 2)
	for _, b := range expired {
		assert.Equal(t, domain.StatusAlternativeExpired, b.Status)
		assert.False(t, b.HasAlternative())
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountPendingBefore(t *testing.T) {
	repo, mock := newRepo(t)
	createdAt := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE service_id = \$1 AND status = \$2 AND vendor_id = \$3 AND created_at < \$4 AND id <> \$5`).
		WithArgs(int64(30), "pending", int64(20), createdAt, int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountPendingBefore(context.Background(), 20, 30, createdAt, 8)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Customer With Status", func(t *testing.T) {
		repo, mock := newRepo(t)
		status := domain.StatusPending

		mock.ExpectQuery(`FROM bookings WHERE customer_id = \$1 AND status = \$2 ORDER BY requested_start_time ASC, id ASC LIMIT 20`).
			WithArgs(int64(10), "pending").
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(bookingRow(1, domain.StatusPending, now)...))

		list, err := repo.List(ctx, domain.BookingsFilter{CustomerID: ptr.Ptr(int64(10)), Status: &status})
		require.NoError(t, err)
		assert.Len(t, list, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Limit Is Clamped", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(`FROM bookings WHERE vendor_id = \$1 ORDER BY requested_start_time ASC, id ASC LIMIT 100 OFFSET 40`).
			WithArgs(int64(20)).
			WillReturnRows(sqlmock.NewRows(bookingColumns))

		list, err := repo.List(ctx, domain.BookingsFilter{VendorID: ptr.Ptr(int64(20)), Limit: 500, Offset: 40})
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
