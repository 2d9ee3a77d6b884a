package calculate_price

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на расчёт стоимости
type Request struct {
	ServiceID       int64
	PricingOptionID *int64 // nil = вариант цены услуги по умолчанию
	StartTime       time.Time
	EndTime         time.Time
}

// Response модель ответа с расчётом стоимости
type Response struct {
	ServiceID int64
	Breakdown domain.PriceBreakdown
}
