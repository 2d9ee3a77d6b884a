package get_availability_settings

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

type AvailabilityService interface {
	GetSettings(ctx context.Context, vendorID int64) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
