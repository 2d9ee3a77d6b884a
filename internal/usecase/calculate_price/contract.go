package calculate_price

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
)

// CatalogClient интерфейс клиента каталога услуг и комиссий
type CatalogClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
	GetPlatformFeePercentWithGracefulDegradation(ctx context.Context) (float64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
