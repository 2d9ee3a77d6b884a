package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
)

// AvailabilityRepository интерфейс репозитория настроек доступности и блокировок
type AvailabilityRepository interface {
	GetSettings(ctx context.Context, vendorID int64) (*domain.AvailabilitySettings, error)
	UpsertSettings(ctx context.Context, settings *domain.AvailabilitySettings) (*domain.AvailabilitySettings, error)
	CreateBlock(ctx context.Context, block *domain.CalendarBlock) (*domain.CalendarBlock, error)
	GetBlockByID(ctx context.Context, id int64) (*domain.CalendarBlock, error)
	UpdateBlock(ctx context.Context, block *domain.CalendarBlock) (*domain.CalendarBlock, error)
	DeleteBlock(ctx context.Context, id, vendorID int64) error
	ListBlocks(ctx context.Context, vendorID int64, start, end time.Time, serviceID *int64) ([]*domain.CalendarBlock, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
