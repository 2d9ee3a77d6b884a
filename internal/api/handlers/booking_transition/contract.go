package booking_transition

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingTransition "github.com/m04kA/SMC-SchedulingService/internal/usecase/booking_transition"
)

type BookingTransitionUseCase interface {
	Accept(ctx context.Context, bookingID int64, actor domain.Actor, req *bookingTransition.AcceptRequest) (*domain.Booking, error)
	Reject(ctx context.Context, bookingID int64, actor domain.Actor, req *bookingTransition.RejectRequest) (*domain.Booking, error)
	ProposeAlternative(ctx context.Context, bookingID int64, actor domain.Actor, req *bookingTransition.ProposeAlternativeRequest) (*domain.Booking, error)
	AcceptAlternative(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID int64, actor domain.Actor, req *bookingTransition.CancelRequest) (*domain.Booking, error)
	Start(ctx context.Context, bookingID int64, actor domain.Actor, req *bookingTransition.StartRequest) (*domain.Booking, error)
	Complete(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
