package calculate_price

import (
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	calculatePrice "github.com/m04kA/SMC-SchedulingService/internal/usecase/calculate_price"
)

// PriceResponse HTTP response model
type PriceResponse struct {
	ServiceID      int64                 `json:"serviceId"`
	RequiresQuote  bool                  `json:"requiresQuote"`
	PriceBreakdown domain.PriceBreakdown `json:"priceBreakdown"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *calculatePrice.Response) *PriceResponse {
	return &PriceResponse{
		ServiceID:      resp.ServiceID,
		RequiresQuote:  resp.Breakdown.RequiresQuote(),
		PriceBreakdown: resp.Breakdown,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров start, end (RFC3339) и pricingOptionId
func ToUseCaseRequest(r *http.Request, serviceID int64) (*calculatePrice.Request, error) {
	start, err := handlers.QueryTime(r, "start")
	if err != nil {
		return nil, err
	}
	end, err := handlers.QueryTime(r, "end")
	if err != nil {
		return nil, err
	}
	if start == nil || end == nil {
		return nil, fmt.Errorf("start and end are required")
	}

	pricingOptionID, err := handlers.QueryInt64(r, "pricingOptionId")
	if err != nil {
		return nil, err
	}

	return &calculatePrice.Request{
		ServiceID:       serviceID,
		PricingOptionID: pricingOptionID,
		StartTime:       *start,
		EndTime:         *end,
	}, nil
}
