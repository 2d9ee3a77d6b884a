package calculate_price

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// computeBreakdown рассчитывает стоимость окна [start, end) по варианту цены.
// Денежные суммы округляются до копеек.
func computeBreakdown(option *catalogservice.PricingOption, currency string, start, end time.Time, feePercent float64) (domain.PriceBreakdown, error) {
	breakdown := domain.PriceBreakdown{
		PricingModel:       option.Model,
		BasePrice:          domain.RoundMoney(option.BasePrice),
		PlatformFeePercent: feePercent,
		Currency:           currency,
	}
	if option.ID != 0 {
		breakdown.PricingOptionID = ptr.Ptr(option.ID)
	}

	var subtotal float64

	switch option.Model {
	case domain.PricingFixed:
		breakdown.DurationUnits = 1
		subtotal = option.BasePrice

	case domain.PricingPerUnit:
		unitMinutes := domain.DefaultPricingUnitMinutes
		if option.UnitMinutes != nil && *option.UnitMinutes > 0 {
			unitMinutes = *option.UnitMinutes
		}
		breakdown.UnitMinutes = unitMinutes
		breakdown.DurationUnits = ceilUnits(end.Sub(start), time.Duration(unitMinutes)*time.Minute)
		subtotal = option.BasePrice * float64(breakdown.DurationUnits)

	case domain.PricingItemized:
		breakdown.DurationUnits = 1
		breakdown.Items = option.Items
		for _, item := range option.Items {
			subtotal += item.Price * float64(item.Quantity)
		}

	case domain.PricingFreeText:
		// Цена согласуется вручную: итог не рассчитывается, комиссия не начисляется
		breakdown.DurationUnits = 1
		breakdown.PlatformFeePercent = 0
		breakdown.Note = domain.FreeTextQuoteNote
		return breakdown, nil

	default:
		return breakdown, fmt.Errorf("unknown pricing model %q", option.Model)
	}

	subtotal = domain.RoundMoney(subtotal)
	fee := domain.RoundMoney(subtotal * feePercent / 100)

	breakdown.Subtotal = ptr.Ptr(subtotal)
	breakdown.PlatformFee = fee
	breakdown.Total = ptr.Ptr(domain.RoundMoney(subtotal + fee))

	return breakdown, nil
}

// ceilUnits возвращает число единиц unit, покрывающих d (с округлением вверх)
func ceilUnits(d, unit time.Duration) int {
	if d <= 0 || unit <= 0 {
		return 0
	}
	return int((d + unit - 1) / unit)
}
