package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if _, err := time.Parse(domain.DateFormat, req.Date); err != nil {
		return fmt.Errorf("%w: date must be in format %s", ErrInvalidInput, domain.DateFormat)
	}

	if req.DurationMinutes != nil {
		if *req.DurationMinutes < domain.MinSlotDurationMinutes || *req.DurationMinutes > domain.MaxSlotDurationMinutes {
			return fmt.Errorf("%w: duration must be within [%d, %d] minutes",
				ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
		}
	}

	return nil
}

// resolveDuration выбирает длительность слота: явный параметр, затем вариант цены,
// затем длительность услуги по умолчанию, затем значение из конфигурации
func resolveDuration(explicit *int, option *catalogservice.PricingOption, service *catalogservice.Service, fallback int) int {
	if explicit != nil {
		return *explicit
	}
	if option != nil && option.DurationMinutes != nil && *option.DurationMinutes > 0 {
		return *option.DurationMinutes
	}
	if service.DefaultDurationMinutes != nil && *service.DefaultDurationMinutes > 0 {
		return *service.DefaultDurationMinutes
	}
	if fallback > 0 {
		return fallback
	}
	return domain.DefaultSlotDurationMinutes
}
