package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ListBookingsRequest фильтр списка бронирований клиента или исполнителя
type ListBookingsRequest struct {
	Status    *string    `json:"status,omitempty"`
	ServiceID *int64     `json:"serviceId,omitempty"`
	From      *time.Time `json:"from,omitempty"` // начало >= From
	To        *time.Time `json:"to,omitempty"`   // начало < To
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		ServiceID: r.ServiceID,
		From:      r.From,
		To:        r.To,
		Limit:     r.Limit,
		Offset:    r.Offset,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	filter.Normalize()
	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 int64     `json:"id"`
	CustomerID         int64     `json:"customerId"`
	VendorID           int64     `json:"vendorId"`
	ServiceID          int64     `json:"serviceId"`
	PricingOptionID    *int64    `json:"pricingOptionId,omitempty"`
	RequestedStartTime time.Time `json:"requestedStartTime"`
	RequestedEndTime   time.Time `json:"requestedEndTime"`
	Status             string    `json:"status"`

	AlternativeStartTime *time.Time `json:"alternativeStartTime,omitempty"`
	AlternativeEndTime   *time.Time `json:"alternativeEndTime,omitempty"`
	AlternativeExpiresAt *time.Time `json:"alternativeExpiresAt,omitempty"`

	CustomerNotes *string `json:"customerNotes,omitempty"`
	VendorNotes   *string `json:"vendorNotes,omitempty"`
	CancelReason  *string `json:"cancelReason,omitempty"`
	CancelledBy   *string `json:"cancelledBy,omitempty"`
	RejectReason  *string `json:"rejectReason,omitempty"`

	PriceBreakdown domain.PriceBreakdown `json:"priceBreakdown"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// QueuePositionResponse позиция бронирования в очереди ожидающих запросов.
// QueuePosition = null, если бронирование не в статусе pending.
type QueuePositionResponse struct {
	BookingID     int64  `json:"bookingId"`
	Status        string `json:"status"`
	QueuePosition *int   `json:"queuePosition"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                   b.ID,
		CustomerID:           b.CustomerID,
		VendorID:             b.VendorID,
		ServiceID:            b.ServiceID,
		PricingOptionID:      b.PricingOptionID,
		RequestedStartTime:   b.RequestedStartTime,
		RequestedEndTime:     b.RequestedEndTime,
		Status:               string(b.Status),
		AlternativeStartTime: b.AlternativeStartTime,
		AlternativeEndTime:   b.AlternativeEndTime,
		AlternativeExpiresAt: b.AlternativeExpiresAt,
		CustomerNotes:        b.CustomerNotes,
		VendorNotes:          b.VendorNotes,
		CancelReason:         b.CancelReason,
		RejectReason:         b.RejectReason,
		PriceBreakdown:       b.PriceBreakdown,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
		StartedAt:            b.StartedAt,
		CompletedAt:          b.CompletedAt,
		CancelledAt:          b.CancelledAt,
	}

	if b.CancelledBy != nil {
		role := string(*b.CancelledBy)
		resp.CancelledBy = &role
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, filter domain.BookingsFilter) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
