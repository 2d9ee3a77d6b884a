package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Бронирование видят только его клиент и исполнитель
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for %s=%d", id, actor.Role, actor.UserID)

	booking, err := s.getParticipantBooking(ctx, "GetByID", id, actor)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetQueuePosition возвращает позицию ожидающего бронирования среди конкурирующих запросов
// той же пары (исполнитель, услуга): 1 + число ожидающих, созданных раньше.
// Для бронирований не в статусе pending позиция не определена (nil).
func (s *Service) GetQueuePosition(ctx context.Context, id int64, actor domain.Actor) (*models.QueuePositionResponse, error) {
	s.logger.Info("GetQueuePosition: booking id=%d for %s=%d", id, actor.Role, actor.UserID)

	booking, err := s.getParticipantBooking(ctx, "GetQueuePosition", id, actor)
	if err != nil {
		return nil, err
	}

	resp := &models.QueuePositionResponse{
		BookingID: booking.ID,
		Status:    string(booking.Status),
	}

	if booking.Status != domain.StatusPending {
		return resp, nil
	}

	ahead, err := s.bookingRepo.CountPendingBefore(ctx, booking.VendorID, booking.ServiceID, booking.CreatedAt, booking.ID)
	if err != nil {
		s.logger.Error("GetQueuePosition: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetQueuePosition - repository error: %v", ErrInternal, err)
	}

	resp.QueuePosition = ptr.Ptr(ahead + 1)

	s.logger.Info("GetQueuePosition: booking id=%d is at position %d", id, *resp.QueuePosition)
	return resp, nil
}

// GetCustomerBookings получает бронирования клиента
// Доступно только самому клиенту
func (s *Service) GetCustomerBookings(ctx context.Context, actor domain.Actor, customerID int64, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d by %s=%d", customerID, actor.Role, actor.UserID)

	if actor.Role != domain.RoleCustomer || actor.UserID != customerID {
		s.logger.Warn("GetCustomerBookings: %s=%d is not customer=%d", actor.Role, actor.UserID, customerID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetCustomerBookings: invalid filter for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	filter.CustomerID = &customerID

	return s.list(ctx, "GetCustomerBookings", filter)
}

// GetVendorBookings получает бронирования исполнителя
// Доступно только самому исполнителю
func (s *Service) GetVendorBookings(ctx context.Context, actor domain.Actor, vendorID int64, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetVendorBookings: fetching bookings for vendor=%d by %s=%d", vendorID, actor.Role, actor.UserID)

	if actor.Role != domain.RoleVendor || actor.UserID != vendorID {
		s.logger.Warn("GetVendorBookings: %s=%d is not vendor=%d", actor.Role, actor.UserID, vendorID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetVendorBookings: invalid filter for vendor=%d: %v", vendorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	filter.VendorID = &vendorID

	return s.list(ctx, "GetVendorBookings", filter)
}

// Вспомогательные методы

func (s *Service) list(ctx context.Context, method string, filter domain.BookingsFilter) (*models.BookingListResponse, error) {
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return nil, fmt.Errorf("%w: 'to' must be after 'from'", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("%s: repository error: %v", method, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}

	s.logger.Info("%s: successfully fetched %d bookings", method, len(bookings))
	return models.FromDomainBookingList(bookings, filter), nil
}

// getParticipantBooking получает бронирование и проверяет, что действующее лицо - его участник
func (s *Service) getParticipantBooking(ctx context.Context, method string, id int64, actor domain.Actor) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", method, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", method, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}

	if actor.Role == domain.RoleSystem || !booking.IsParticipant(actor) {
		s.logger.Warn("%s: access denied for %s=%d to booking id=%d", method, actor.Role, actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return booking, nil
}
