package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	catalogClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	availabilityRepo    AvailabilityRepository
	bookingRepo         BookingRepository
	catalogClient       CatalogClient
	defaultSlotDuration int
	timeProvider        TimeProvider
	logger              Logger
}

// NewUseCase создает новый экземпляр use case
// Если timeProvider = nil, используется системное время
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	bookingRepo BookingRepository,
	catalogClient CatalogClient,
	defaultSlotDuration int,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		availabilityRepo:    availabilityRepo,
		bookingRepo:         bookingRepo,
		catalogClient:       catalogClient,
		defaultSlotDuration: defaultSlotDuration,
		timeProvider:        timeProvider,
		logger:              logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s, duration=%v, pricingOption=%v",
		req.ServiceID, req.Date, req.DurationMinutes, req.PricingOptionID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Определяем вариант цены и длительность слота
	option := &service.DefaultPricing
	if req.PricingOptionID != nil {
		found, ok := service.FindPricingOption(*req.PricingOptionID)
		if !ok {
			uc.logger.Warn("GetAvailableSlots: pricing option id=%d not found in service id=%d", *req.PricingOptionID, req.ServiceID)
			return nil, ErrPricingOptionNotFound
		}
		option = found
	}
	durationMinutes := resolveDuration(req.DurationMinutes, option, service, uc.defaultSlotDuration)

	// 5. Получаем настройки доступности исполнителя
	settings, err := uc.availabilityRepo.GetSettings(ctx, service.VendorID)
	if err != nil {
		if !errors.Is(err, availabilityRepo.ErrSettingsNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get settings for vendor=%d: %v", service.VendorID, err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		uc.logger.Info("GetAvailableSlots: using default settings for vendor=%d", service.VendorID)
		settings = domain.DefaultAvailabilitySettings(service.VendorID)
	}

	loc, err := settings.Location()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid timezone %q for vendor=%d: %v", settings.Timezone, service.VendorID, err)
		return nil, fmt.Errorf("%w: invalid vendor timezone: %v", ErrInternal, err)
	}

	// 6. Границы дня в часовом поясе исполнителя
	day, err := time.ParseInLocation(domain.DateFormat, req.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	dayStart, dayEnd := dayBounds(day, loc)

	// 7. Получаем блокировки и занятые бронирования этого дня
	blocks, err := uc.availabilityRepo.ListBlocks(ctx, service.VendorID, dayStart, dayEnd, &service.ID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocks: %v", ErrInternal, err)
	}

	occupying, err := uc.bookingRepo.FindOverlapping(ctx, domain.OverlapFilter{
		VendorID:  service.VendorID,
		ServiceID: settings.ConflictServiceID(service.ID),
		Start:     dayStart,
		End:       dayEnd,
		Statuses:  domain.OccupyingStatuses,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 8. Вычисляем слоты
	computed := computeSlots(slotInput{
		Settings:  settings,
		Location:  loc,
		Day:       dayStart,
		ServiceID: service.ID,
		Duration:  time.Duration(durationMinutes) * time.Minute,
		Blocks:    blocks,
		Occupying: occupying,
		Now:       now,
	})

	slots := make([]Slot, 0, len(computed))
	for _, s := range computed {
		slots = append(slots, Slot{StartTime: s.StartTime, EndTime: s.EndTime})
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for service=%d, vendor=%d, date=%s",
		len(slots), service.ID, service.VendorID, req.Date)

	return &Response{
		ServiceID:       service.ID,
		VendorID:        service.VendorID,
		Date:            req.Date,
		Timezone:        settings.Timezone,
		DurationMinutes: durationMinutes,
		Slots:           slots,
	}, nil
}
