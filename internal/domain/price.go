package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
)

// PricingModel defines how a pricing option turns a time window into money
type PricingModel string

const (
	PricingFixed    PricingModel = "fixed"
	PricingPerUnit  PricingModel = "per_unit"
	PricingItemized PricingModel = "itemized"
	PricingFreeText PricingModel = "free_text"
)

// IsValid returns true for a known pricing model
func (m PricingModel) IsValid() bool {
	switch m {
	case PricingFixed, PricingPerUnit, PricingItemized, PricingFreeText:
		return true
	}
	return false
}

// FreeTextQuoteNote is attached to breakdowns that need a manual quote
const FreeTextQuoteNote = "manual quote required"

// PriceItem is one line of an itemized price
type PriceItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// PriceBreakdown is the price computed at request time and frozen into the booking
type PriceBreakdown struct {
	PricingModel       PricingModel `json:"pricingModel"`
	PricingOptionID    *int64       `json:"pricingOptionId,omitempty"`
	BasePrice          float64      `json:"basePrice"`
	UnitMinutes        int          `json:"unitMinutes,omitempty"`
	DurationUnits      int          `json:"durationUnits"`
	Items              []PriceItem  `json:"items,omitempty"`
	Subtotal           *float64     `json:"subtotal"`
	PlatformFeePercent float64      `json:"platformFeePercent"`
	PlatformFee        float64      `json:"platformFee"`
	Total              *float64     `json:"total"`
	Currency           string       `json:"currency"`
	Note               string       `json:"note,omitempty"`
}

// RequiresQuote returns true if the price is not computable automatically
func (p PriceBreakdown) RequiresQuote() bool {
	return p.Total == nil
}

// Value implements driver.Valuer (stored as JSONB)
func (p PriceBreakdown) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner
func (p *PriceBreakdown) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*p = PriceBreakdown{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PriceBreakdown", src)
	}
	return json.Unmarshal(data, p)
}

// RoundMoney rounds an amount to cents
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
