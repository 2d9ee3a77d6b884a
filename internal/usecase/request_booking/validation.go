package request_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if !req.EndTime.After(req.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if req.EndTime.Sub(req.StartTime) > domain.MaxSlotDurationMinutes*time.Minute {
		return fmt.Errorf("%w: window must not exceed %d minutes", ErrInvalidInput, domain.MaxSlotDurationMinutes)
	}

	if req.CustomerNotes != nil && len(*req.CustomerNotes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateWindow проверяет, что начало окна попадает в окно бронирования исполнителя
func validateWindow(start, now time.Time, settings *domain.AvailabilitySettings) error {
	earliest, latest := settings.BookingWindow(now)

	if start.Before(earliest) {
		return fmt.Errorf("%w: must book at least %d hours in advance", ErrTooLateToBook, settings.MinBookingNoticeHours)
	}

	if start.After(latest) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrTooFarInAdvance, settings.MaxBookingAdvanceDays)
	}

	return nil
}
