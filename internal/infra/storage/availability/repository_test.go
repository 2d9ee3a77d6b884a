package availability

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestGetSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newRepo(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT vendor_id, working_hours, timezone, .* FROM availability_settings WHERE vendor_id = \$1`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(settingsColumns).AddRow(
				int64(42), []byte(`{"monday":[{"start":"09:00","end":"17:00"}]}`), "Europe/Berlin", 2, 30, "vendor", now, now,
			))

		settings, err := repo.GetSettings(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), settings.VendorID)
		assert.Equal(t, "Europe/Berlin", settings.Timezone)
		assert.Equal(t, domain.ConflictScopeVendor, settings.ConflictScope)
		require.Len(t, settings.WorkingHours[domain.Monday], 1)
		assert.Equal(t, domain.TimeRange{Start: "09:00", End: "17:00"}, settings.WorkingHours[domain.Monday][0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(`FROM availability_settings`).
			WithArgs(int64(7)).
			WillReturnError(sql.ErrNoRows)

		settings, err := repo.GetSettings(ctx, 7)
		assert.ErrorIs(t, err, ErrSettingsNotFound)
		assert.Nil(t, settings)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpsertSettings(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	settings := &domain.AvailabilitySettings{
		VendorID:              5,
		WorkingHours:          domain.WeeklySchedule{domain.Friday: {{Start: "10:00", End: "18:00"}}},
		Timezone:              "UTC",
		MinBookingNoticeHours: 0,
		MaxBookingAdvanceDays: 14,
		ConflictScope:         domain.ConflictScopeService,
	}

	mock.ExpectQuery(`INSERT INTO availability_settings .* ON CONFLICT \(vendor_id\) DO UPDATE SET`).
		WithArgs(int64(5), sqlmock.AnyArg(), "UTC", 0, 14, "service").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	saved, err := repo.UpsertSettings(context.Background(), settings)
	require.NoError(t, err)
	assert.Equal(t, now, saved.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBlock(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	mock.ExpectQuery(`INSERT INTO calendar_blocks`).
		WithArgs(int64(1), nil, start, end, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	block, err := repo.CreateBlock(context.Background(), &domain.CalendarBlock{
		VendorID:  1,
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), block.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBlockByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM calendar_blocks WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetBlockByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrBlockNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBlock(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec(`DELETE FROM calendar_blocks WHERE id = \$1 AND vendor_id = \$2`).
			WithArgs(int64(3), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.DeleteBlock(ctx, 3, 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec(`DELETE FROM calendar_blocks`).
			WithArgs(int64(3), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeleteBlock(ctx, 3, 1), ErrBlockNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec(`DELETE FROM calendar_blocks`).
			WillReturnError(errors.New("connection reset"))

		err := repo.DeleteBlock(ctx, 3, 1)
		assert.ErrorIs(t, err, ErrExecQuery)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestListBlocks(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	now := time.Now()
	serviceID := int64(9)

	t.Run("Vendor Wide", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(`FROM calendar_blocks WHERE vendor_id = \$1 AND start_time < \$2 AND end_time > \$3 ORDER BY start_time ASC, id ASC`).
			WithArgs(int64(1), to, from).
			WillReturnRows(sqlmock.NewRows(blockColumns).
				AddRow(int64(1), int64(1), nil, from.Add(time.Hour), from.Add(2*time.Hour), "lunch", now, now).
				AddRow(int64(2), int64(1), serviceID, from.Add(3*time.Hour), from.Add(4*time.Hour), nil, now, now))

		blocks, err := repo.ListBlocks(context.Background(), 1, from, to, nil)
		require.NoError(t, err)
		require.Len(t, blocks, 2)
		assert.Nil(t, blocks[0].ServiceID)
		require.NotNil(t, blocks[0].Reason)
		assert.Equal(t, "lunch", *blocks[0].Reason)
		require.NotNil(t, blocks[1].ServiceID)
		assert.Equal(t, serviceID, *blocks[1].ServiceID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Service Filter Includes Vendor Wide Blocks", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(`AND \(service_id = \$4 OR service_id IS NULL\)`).
			WithArgs(int64(1), to, from, serviceID).
			WillReturnRows(sqlmock.NewRows(blockColumns))

		blocks, err := repo.ListBlocks(context.Background(), 1, from, to, &serviceID)
		require.NoError(t, err)
		assert.Empty(t, blocks)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
