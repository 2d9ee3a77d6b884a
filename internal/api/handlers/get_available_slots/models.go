package get_available_slots

import (
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ServiceID       int64           `json:"serviceId"`
	VendorID        int64           `json:"vendorId"`
	Date            string          `json:"date"`
	Timezone        string          `json:"timezone"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		}
	}

	return &AvailableSlotsResponse{
		ServiceID:       resp.ServiceID,
		VendorID:        resp.VendorID,
		Date:            resp.Date,
		Timezone:        resp.Timezone,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров date, duration и pricingOptionId
func ToUseCaseRequest(r *http.Request, serviceID int64) (*getAvailableSlots.Request, error) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return nil, fmt.Errorf("date is required")
	}

	duration, err := handlers.QueryInt(r, "duration")
	if err != nil {
		return nil, err
	}

	pricingOptionID, err := handlers.QueryInt64(r, "pricingOptionId")
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ServiceID:       serviceID,
		Date:            date,
		DurationMinutes: duration,
		PricingOptionID: pricingOptionID,
	}, nil
}
