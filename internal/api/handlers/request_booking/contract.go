package request_booking

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	requestBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/request_booking"
)

type RequestBookingUseCase interface {
	Execute(ctx context.Context, req *requestBooking.Request) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
