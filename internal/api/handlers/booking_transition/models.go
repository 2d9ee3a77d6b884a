package booking_transition

import (
	"time"

	bookingTransition "github.com/m04kA/SMC-SchedulingService/internal/usecase/booking_transition"
)

// AcceptRequest HTTP request model (тело необязательно)
type AcceptRequest struct {
	Message *string `json:"message,omitempty"`
}

func (r *AcceptRequest) ToUseCaseRequest() *bookingTransition.AcceptRequest {
	return &bookingTransition.AcceptRequest{VendorNotes: r.Message}
}

// RejectRequest HTTP request model (тело необязательно)
type RejectRequest struct {
	Reason *string `json:"reason,omitempty"`
}

func (r *RejectRequest) ToUseCaseRequest() *bookingTransition.RejectRequest {
	return &bookingTransition.RejectRequest{Reason: r.Reason}
}

// ProposeAlternativeRequest HTTP request model
type ProposeAlternativeRequest struct {
	StartTime   time.Time  `json:"startTime"`
	EndTime     time.Time  `json:"endTime"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	ExpiryHours *int       `json:"expiryHours,omitempty"`
	Message     *string    `json:"message,omitempty"`
}

func (r *ProposeAlternativeRequest) ToUseCaseRequest() *bookingTransition.ProposeAlternativeRequest {
	return &bookingTransition.ProposeAlternativeRequest{
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		ExpiresAt:   r.ExpiresAt,
		ExpiryHours: r.ExpiryHours,
		VendorNotes: r.Message,
	}
}

// CancelRequest HTTP request model
type CancelRequest struct {
	Reason string `json:"reason"`
}

func (r *CancelRequest) ToUseCaseRequest() *bookingTransition.CancelRequest {
	return &bookingTransition.CancelRequest{Reason: r.Reason}
}

// StartRequest HTTP request model (тело необязательно)
type StartRequest struct {
	Override bool `json:"override,omitempty"`
}

func (r *StartRequest) ToUseCaseRequest() *bookingTransition.StartRequest {
	return &bookingTransition.StartRequest{Override: r.Override}
}
