package catalogservice

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// PricingOption вариант цены услуги из каталога
type PricingOption struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	Model           domain.PricingModel `json:"pricing_model"`
	BasePrice       float64             `json:"base_price"`
	UnitMinutes     *int                `json:"unit_minutes,omitempty"`     // Для per_unit, по умолчанию 60
	DurationMinutes *int                `json:"duration_minutes,omitempty"` // Длительность слота для этого варианта
	Items           []domain.PriceItem  `json:"items,omitempty"`            // Для itemized
}

// Service модель услуги из каталога
type Service struct {
	ID                     int64           `json:"id"`
	VendorID               int64           `json:"vendor_id"`
	Name                   string          `json:"name"`
	IsActive               bool            `json:"is_active"`
	DefaultDurationMinutes *int            `json:"default_duration_minutes,omitempty"`
	Currency               string          `json:"currency"`
	DefaultPricing         PricingOption   `json:"default_pricing"`
	PricingOptions         []PricingOption `json:"pricing_options"`
}

// FindPricingOption ищет вариант цены по ID
func (s *Service) FindPricingOption(id int64) (*PricingOption, bool) {
	for i := range s.PricingOptions {
		if s.PricingOptions[i].ID == id {
			return &s.PricingOptions[i], true
		}
	}
	return nil, false
}

// PlatformFee текущая комиссия платформы
type PlatformFee struct {
	Percent float64 `json:"percent"`
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
