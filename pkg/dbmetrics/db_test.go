package dbmetrics

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
)

func TestGetExecutor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	wrapped := New(db, nil, "test")
	ctx := context.Background()

	t.Run("without transaction returns db", func(t *testing.T) {
		assert.False(t, IsInTransaction(ctx))
		assert.Same(t, wrapped, GetExecutor(ctx, wrapped))
	})

	t.Run("with transaction returns tx", func(t *testing.T) {
		mock.ExpectBegin()
		tx, err := wrapped.BeginTx(ctx, nil)
		require.NoError(t, err)

		txCtx := WithTx(ctx, tx)
		assert.True(t, IsInTransaction(txCtx))
		assert.Same(t, tx, GetExecutor(txCtx, wrapped))

		mock.ExpectRollback()
		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDB_RecordsQueryMetrics(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	collector := metrics.NewWithRegistry(prometheus.NewRegistry(), "test")
	wrapped := New(db, collector, "test")

	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))

	_, err = wrapped.ExecContext(context.Background(), "UPDATE bookings SET status = $1", "accepted")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
