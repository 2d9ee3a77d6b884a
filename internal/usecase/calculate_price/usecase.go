package calculate_price

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// UseCase use case расчёта стоимости бронирования
type UseCase struct {
	catalogClient     CatalogClient
	defaultFeePercent float64
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
// defaultFeePercent применяется, когда комиссия каталога недоступна
func NewUseCase(catalogClient CatalogClient, defaultFeePercent float64, logger Logger) *UseCase {
	return &UseCase{
		catalogClient:     catalogClient,
		defaultFeePercent: defaultFeePercent,
		logger:            logger,
	}
}

// Execute рассчитывает стоимость услуги для окна [StartTime, EndTime)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CalculatePrice: service=%d, pricingOption=%v, start=%s, end=%s",
		req.ServiceID, req.PricingOptionID, req.StartTime, req.EndTime)

	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CalculatePrice: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CalculatePrice: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	breakdown, err := uc.Breakdown(ctx, service, req.PricingOptionID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	return &Response{
		ServiceID: service.ID,
		Breakdown: *breakdown,
	}, nil
}

// Breakdown рассчитывает стоимость по уже полученной услуге.
// Используется при создании бронирования, чтобы зафиксировать цену.
func (uc *UseCase) Breakdown(ctx context.Context, service *catalogClient.Service, pricingOptionID *int64, start, end time.Time) (*domain.PriceBreakdown, error) {
	// 1. Валидация окна
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}

	// 2. Определяем вариант цены
	option := &service.DefaultPricing
	if pricingOptionID != nil {
		found, ok := service.FindPricingOption(*pricingOptionID)
		if !ok {
			uc.logger.Warn("CalculatePrice: pricing option id=%d not found in service id=%d", *pricingOptionID, service.ID)
			return nil, ErrPricingOptionNotFound
		}
		option = found
	}

	// 3. Комиссия платформы; при недоступности каталога берём значение из конфигурации
	feePercent := uc.defaultFeePercent
	if option.Model != domain.PricingFreeText {
		percent, err := uc.catalogClient.GetPlatformFeePercentWithGracefulDegradation(ctx)
		if err != nil {
			uc.logger.Warn("CalculatePrice: using default platform fee %.2f%%: %v", uc.defaultFeePercent, err)
		} else {
			feePercent = percent
		}
	}

	// 4. Расчёт
	breakdown, err := computeBreakdown(option, service.Currency, start, end, feePercent)
	if err != nil {
		uc.logger.Error("CalculatePrice: service id=%d: %v", service.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("CalculatePrice: service=%d, model=%s, total=%.2f, quoteRequired=%t",
		service.ID, breakdown.PricingModel, ptr.Value(breakdown.Total), breakdown.RequiresQuote())
	return &breakdown, nil
}
