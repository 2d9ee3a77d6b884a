package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const (
	settingsTable = "availability_settings"
	blocksTable   = "calendar_blocks"
)

var settingsColumns = []string{
	"vendor_id",
	"working_hours",
	"timezone",
	"min_booking_notice_hours",
	"max_booking_advance_days",
	"conflict_scope",
	"created_at",
	"updated_at",
}

var blockColumns = []string{
	"id",
	"vendor_id",
	"service_id",
	"start_time",
	"end_time",
	"reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий настроек доступности и блокировок календаря
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetSettings получает настройки доступности исполнителя.
// Если настройки не сохранялись, возвращает ErrSettingsNotFound.
func (r *Repository) GetSettings(ctx context.Context, vendorID int64) (*domain.AvailabilitySettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(settingsColumns...).
		From(settingsTable).
		Where(squirrel.Eq{"vendor_id": vendorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.AvailabilitySettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.VendorID,
		&settings.WorkingHours,
		&settings.Timezone,
		&settings.MinBookingNoticeHours,
		&settings.MaxBookingAdvanceDays,
		&settings.ConflictScope,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - scan settings: %v", ErrScanRow, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}

// UpsertSettings полностью заменяет настройки исполнителя или создает их при первом сохранении
func (r *Repository) UpsertSettings(ctx context.Context, settings *domain.AvailabilitySettings) (*domain.AvailabilitySettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(settingsTable).
		Columns(
			"vendor_id",
			"working_hours",
			"timezone",
			"min_booking_notice_hours",
			"max_booking_advance_days",
			"conflict_scope",
		).
		Values(
			settings.VendorID,
			settings.WorkingHours,
			settings.Timezone,
			settings.MinBookingNoticeHours,
			settings.MaxBookingAdvanceDays,
			settings.ConflictScope,
		).
		Suffix(`ON CONFLICT (vendor_id) DO UPDATE SET
			working_hours = EXCLUDED.working_hours,
			timezone = EXCLUDED.timezone,
			min_booking_notice_hours = EXCLUDED.min_booking_notice_hours,
			max_booking_advance_days = EXCLUDED.max_booking_advance_days,
			conflict_scope = EXCLUDED.conflict_scope,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertSettings - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertSettings - execute upsert: %v", ErrExecQuery, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return settings, nil
}

// CreateBlock создает блокировку календаря
func (r *Repository) CreateBlock(ctx context.Context, block *domain.CalendarBlock) (*domain.CalendarBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(blocksTable).
		Columns("vendor_id", "service_id", "start_time", "end_time", "reason").
		Values(block.VendorID, block.ServiceID, block.StartTime, block.EndTime, block.Reason).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlock - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlock - execute insert: %v", ErrExecQuery, err)
	}

	block.CreatedAt = createdAt.Time
	block.UpdatedAt = updatedAt.Time

	return block, nil
}

// GetBlockByID получает блокировку по ID
func (r *Repository) GetBlockByID(ctx context.Context, id int64) (*domain.CalendarBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockColumns...).
		From(blocksTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockByID - build select query: %v", ErrBuildQuery, err)
	}

	block, err := scanBlock(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockByID - scan block: %v", ErrScanRow, err)
	}

	return block, nil
}

// UpdateBlock сохраняет все изменяемые поля блокировки
func (r *Repository) UpdateBlock(ctx context.Context, block *domain.CalendarBlock) (*domain.CalendarBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(blocksTable).
		Set("service_id", block.ServiceID).
		Set("start_time", block.StartTime).
		Set("end_time", block.EndTime).
		Set("reason", block.Reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": block.ID, "vendor_id": block.VendorID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateBlock - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateBlock - execute update: %v", ErrExecQuery, err)
	}

	block.UpdatedAt = updatedAt.Time

	return block, nil
}

// DeleteBlock удаляет блокировку исполнителя
func (r *Repository) DeleteBlock(ctx context.Context, id, vendorID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(blocksTable).
		Where(squirrel.Eq{"id": id, "vendor_id": vendorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlock - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlock - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlock - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}

// ListBlocks возвращает блокировки исполнителя, пересекающиеся с [start, end).
// Если serviceID задан, возвращаются блокировки этой услуги и блокировки на все услуги.
func (r *Repository) ListBlocks(ctx context.Context, vendorID int64, start, end time.Time, serviceID *int64) ([]*domain.CalendarBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(blockColumns...).
		From(blocksTable).
		Where(squirrel.Eq{"vendor_id": vendorID}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC", "id ASC")

	if serviceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Eq{"service_id": *serviceID},
			squirrel.Eq{"service_id": nil},
		})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.CalendarBlock, 0)
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBlocks - scan row: %v", ErrScanRow, err)
		}
		blocks = append(blocks, block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlocks - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlock(row rowScanner) (*domain.CalendarBlock, error) {
	var block domain.CalendarBlock
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&block.ID,
		&block.VendorID,
		&block.ServiceID,
		&block.StartTime,
		&block.EndTime,
		&block.Reason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	block.CreatedAt = createdAt.Time
	block.UpdatedAt = updatedAt.Time

	return &block, nil
}
