package request_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	catalogClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SchedulingService/internal/usecase/calculate_price"
)

// UseCase use case для создания запроса на бронирование
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	catalogClient    CatalogClient
	priceCalculator  PriceCalculator
	notifier         Notifier
	metrics          MetricsRecorder
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
// Если timeProvider = nil, используется системное время
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	catalogClient CatalogClient,
	priceCalculator PriceCalculator,
	notifier Notifier,
	metrics MetricsRecorder,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		catalogClient:    catalogClient,
		priceCalculator:  priceCalculator,
		notifier:         notifier,
		metrics:          metrics,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}

// Execute создает бронирование в статусе pending.
// Запросы на пересекающиеся окна не конфликтуют: решение принимает исполнитель при подтверждении.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("RequestBooking: %s=%d, service=%d, start=%s, end=%s",
		req.Actor.Role, req.Actor.UserID, req.ServiceID, req.StartTime, req.EndTime)

	booking, err := uc.execute(ctx, req)
	uc.metrics.RecordTransition(string(domain.ActionRequest), err)
	return booking, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RequestBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("RequestBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("RequestBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	booking := &domain.Booking{
		CustomerID:         req.Actor.UserID,
		VendorID:           service.VendorID,
		ServiceID:          service.ID,
		PricingOptionID:    req.PricingOptionID,
		RequestedStartTime: req.StartTime,
		RequestedEndTime:   req.EndTime,
		Status:             domain.StatusPending,
		CustomerNotes:      req.CustomerNotes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	// 4. Проверяем права: запрос делает только клиент
	if err := domain.Authorize(domain.ActionRequest, req.Actor, booking); err != nil {
		uc.logger.Warn("RequestBooking: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}

	if !service.IsActive {
		uc.logger.Warn("RequestBooking: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 5. Проверяем окно бронирования исполнителя
	settings, err := uc.availabilityRepo.GetSettings(ctx, service.VendorID)
	if err != nil {
		if !errors.Is(err, availabilityRepo.ErrSettingsNotFound) {
			uc.logger.Error("RequestBooking: failed to get settings for vendor=%d: %v", service.VendorID, err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		settings = domain.DefaultAvailabilitySettings(service.VendorID)
	}

	if err := validateWindow(req.StartTime, now, settings); err != nil {
		uc.logger.Warn("RequestBooking: window validation failed: %v", err)
		return nil, err
	}

	// 6. Рассчитываем и фиксируем стоимость
	breakdown, err := uc.priceCalculator.Breakdown(ctx, service, req.PricingOptionID, req.StartTime, req.EndTime)
	if err != nil {
		switch {
		case errors.Is(err, calculate_price.ErrPricingOptionNotFound):
			return nil, ErrPricingOptionNotFound
		case errors.Is(err, calculate_price.ErrInvalidInput):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("RequestBooking: failed to calculate price: %v", err)
		return nil, fmt.Errorf("%w: failed to calculate price: %v", ErrInternal, err)
	}
	booking.PriceBreakdown = *breakdown

	// 7. Сохраняем бронирование
	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		uc.logger.Error("RequestBooking: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	uc.logger.Info("RequestBooking: successfully created booking id=%d", created.ID)

	// 8. Уведомляем исполнителя
	uc.notifier.BookingChanged(ctx, domain.ActionRequest, created, req.Actor, now)

	return created, nil
}
