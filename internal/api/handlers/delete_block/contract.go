package delete_block

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type AvailabilityService interface {
	DeleteBlock(ctx context.Context, actor domain.Actor, vendorID, blockID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
