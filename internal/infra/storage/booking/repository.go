package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const (
	bookingsTable = "bookings"

	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

var bookingColumns = []string{
	"id",
	"customer_id",
	"vendor_id",
	"service_id",
	"pricing_option_id",
	"requested_start_time",
	"requested_end_time",
	"status",
	"alternative_start_time",
	"alternative_end_time",
	"alternative_expires_at",
	"customer_notes",
	"vendor_notes",
	"cancel_reason",
	"cancelled_by",
	"reject_reason",
	"price_breakdown",
	"created_at",
	"updated_at",
	"started_at",
	"completed_at",
	"cancelled_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// created_at берётся из booking.CreatedAt: время задаёт вызывающий код, по нему считается очередь.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(bookingsTable).
		Columns(
			"customer_id",
			"vendor_id",
			"service_id",
			"pricing_option_id",
			"requested_start_time",
			"requested_end_time",
			"status",
			"customer_notes",
			"price_breakdown",
			"created_at",
			"updated_at",
		).
		Values(
			booking.CustomerID,
			booking.VendorID,
			booking.ServiceID,
			booking.PricingOptionID,
			booking.RequestedStartTime,
			booking.RequestedEndTime,
			booking.Status,
			booking.CustomerNotes,
			booking.PriceBreakdown,
			booking.CreatedAt,
			booking.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID); err != nil {
		return nil, execError("Create", "execute insert", err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, execError("GetByID", "scan booking", err)
	}

	return booking, nil
}

// FindOverlapping возвращает бронирования исполнителя в указанных статусах,
// пересекающиеся с [filter.Start, filter.End).
// Внутри транзакции найденные строки блокируются (FOR UPDATE), чтобы параллельное
// подтверждение не могло занять то же время.
func (r *Repository) FindOverlapping(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"vendor_id": filter.VendorID}).
		Where(squirrel.Lt{"requested_start_time": filter.End}).
		Where(squirrel.Gt{"requested_end_time": filter.Start}).
		OrderBy("requested_start_time ASC", "id ASC")

	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *filter.ServiceID})
	}

	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}

	if filter.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, execError("FindOverlapping", "execute query", err)
	}
	defer rows.Close()

	return scanBookings(rows, "FindOverlapping")
}

// ApplyTransition сохраняет бронирование после перехода из статуса from.
// Запись выполняется как compare-and-set по статусу: если статус уже не from,
// ничего не меняется и возвращается ErrStatusChanged.
func (r *Repository) ApplyTransition(ctx context.Context, booking *domain.Booking, from domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("status", booking.Status).
		Set("requested_start_time", booking.RequestedStartTime).
		Set("requested_end_time", booking.RequestedEndTime).
		Set("alternative_start_time", booking.AlternativeStartTime).
		Set("alternative_end_time", booking.AlternativeEndTime).
		Set("alternative_expires_at", booking.AlternativeExpiresAt).
		Set("vendor_notes", booking.VendorNotes).
		Set("cancel_reason", booking.CancelReason).
		Set("cancelled_by", booking.CancelledBy).
		Set("reject_reason", booking.RejectReason).
		Set("started_at", booking.StartedAt).
		Set("completed_at", booking.CompletedAt).
		Set("cancelled_at", booking.CancelledAt).
		Set("updated_at", booking.UpdatedAt).
		Where(squirrel.Eq{"id": booking.ID, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ApplyTransition - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return execError("ApplyTransition", "execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ApplyTransition - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: booking id=%d is no longer %s", ErrStatusChanged, booking.ID, from)
	}

	return nil
}

// ExpireAlternatives переводит в alternative_expired до limit бронирований,
// у которых срок ответа на альтернативу истёк строго раньше now.
// Повторный вызов не затрагивает уже обработанные строки.
func (r *Repository) ExpireAlternatives(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// подзапрос строится с "?", нумерацию $n выполняет внешний построитель
	candidates := squirrel.Select("id").
		From(bookingsTable).
		Where(squirrel.Eq{"status": domain.StatusAlternativeProposed}).
		Where(squirrel.Lt{"alternative_expires_at": now}).
		OrderBy("alternative_expires_at ASC").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED")

	candidatesSQL, candidatesArgs, err := candidates.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireAlternatives - build candidates query: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("status", domain.StatusAlternativeExpired).
		Set("alternative_start_time", nil).
		Set("alternative_end_time", nil).
		Set("alternative_expires_at", nil).
		Set("updated_at", now).
		Where(squirrel.Eq{"status": domain.StatusAlternativeProposed}).
		Where(squirrel.Expr("id IN ("+candidatesSQL+")", candidatesArgs...)).
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ExpireAlternatives - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, execError("ExpireAlternatives", "execute update", err)
	}
	defer rows.Close()

	return scanBookings(rows, "ExpireAlternatives")
}

// CountPendingBefore считает ожидающие бронирования той же пары (исполнитель, услуга),
// созданные строго раньше createdAt
func (r *Repository) CountPendingBefore(ctx context.Context, vendorID, serviceID int64, createdAt time.Time, excludeID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(bookingsTable).
		Where(squirrel.Eq{
			"vendor_id":  vendorID,
			"service_id": serviceID,
			"status":     domain.StatusPending,
		}).
		Where(squirrel.Lt{"created_at": createdAt}).
		Where(squirrel.NotEq{"id": excludeID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountPendingBefore - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, execError("CountPendingBefore", "scan count", err)
	}

	return count, nil
}

// List возвращает бронирования клиента и/или исполнителя с фильтрацией и пагинацией.
// Сортировка: сначала ближайшие по времени начала.
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	filter.Normalize()

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		OrderBy("requested_start_time ASC", "id ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.VendorID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"vendor_id": *filter.VendorID})
	}
	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *filter.ServiceID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"requested_start_time": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"requested_start_time": *filter.To})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, execError("List", "execute query", err)
	}
	defer rows.Close()

	return scanBookings(rows, "List")
}

// execError классифицирует ошибку PostgreSQL.
// Ошибки сериализации оборачиваются через %w, чтобы менеджер транзакций мог повторить попытку.
func execError(method, step string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgExclusionViolation:
			return fmt.Errorf("%w: %s - %s: %v", ErrOverlap, method, step, err)
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %s - %s: %w", ErrExecQuery, method, step, err)
		}
	}
	return fmt.Errorf("%w: %s - %s: %v", ErrExecQuery, method, step, err)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.VendorID,
		&booking.ServiceID,
		&booking.PricingOptionID,
		&booking.RequestedStartTime,
		&booking.RequestedEndTime,
		&booking.Status,
		&booking.AlternativeStartTime,
		&booking.AlternativeEndTime,
		&booking.AlternativeExpiresAt,
		&booking.CustomerNotes,
		&booking.VendorNotes,
		&booking.CancelReason,
		&booking.CancelledBy,
		&booking.RejectReason,
		&booking.PriceBreakdown,
		&createdAt,
		&updatedAt,
		&booking.StartedAt,
		&booking.CompletedAt,
		&booking.CancelledAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows, method string) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, execError(method, "rows error", err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
