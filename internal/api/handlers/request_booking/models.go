package request_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	requestBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/request_booking"
)

// RequestBookingRequest HTTP request model
type RequestBookingRequest struct {
	ServiceID       int64     `json:"serviceId"`
	PricingOptionID *int64    `json:"pricingOptionId,omitempty"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	CustomerNotes   *string   `json:"customerNotes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в запрос use case
func (r *RequestBookingRequest) ToUseCaseRequest(actor domain.Actor) *requestBooking.Request {
	return &requestBooking.Request{
		Actor:           actor,
		ServiceID:       r.ServiceID,
		PricingOptionID: r.PricingOptionID,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		CustomerNotes:   r.CustomerNotes,
	}
}
