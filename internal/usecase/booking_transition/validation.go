package booking_transition

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateReason проверяет длину причины
func validateReason(reason *string) error {
	if reason != nil && len(*reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}
	return nil
}

// validateCancel проверяет, что причина отмены указана
func validateCancel(req *CancelRequest) error {
	if strings.TrimSpace(req.Reason) == "" {
		return fmt.Errorf("%w: cancel reason is required", ErrInvalidInput)
	}
	return validateReason(&req.Reason)
}

// validateAlternative проверяет окно и срок альтернативы
func validateAlternative(req *ProposeAlternativeRequest, now time.Time) error {
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: alternative startTime and endTime are required", ErrInvalidInput)
	}

	if !req.EndTime.After(req.StartTime) {
		return fmt.Errorf("%w: alternative endTime must be after startTime", ErrInvalidInput)
	}

	if req.EndTime.Sub(req.StartTime) > domain.MaxSlotDurationMinutes*time.Minute {
		return fmt.Errorf("%w: alternative must not exceed %d minutes", ErrInvalidInput, domain.MaxSlotDurationMinutes)
	}

	if !req.StartTime.After(now) {
		return fmt.Errorf("%w: alternative must start in the future", ErrInvalidInput)
	}

	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return fmt.Errorf("%w: alternative expiresAt must be in the future", ErrInvalidInput)
	}

	if req.ExpiryHours != nil && (*req.ExpiryHours <= 0 || *req.ExpiryHours > domain.MaxAlternativeExpiryHours) {
		return fmt.Errorf("%w: alternative expiryHours must be within [1, %d]", ErrInvalidInput, domain.MaxAlternativeExpiryHours)
	}

	return validateNotes(req.VendorNotes)
}

// validateNotes проверяет длину сообщения исполнителя
func validateNotes(notes *string) error {
	if notes != nil && len(*notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

// alternativeExpiry возвращает срок ответа на альтернативу.
// Вычисленный срок должен быть позже now.
func alternativeExpiry(req *ProposeAlternativeRequest, now time.Time, ttl time.Duration) (time.Time, error) {
	var expiresAt time.Time
	switch {
	case req.ExpiresAt != nil:
		expiresAt = *req.ExpiresAt
	case req.ExpiryHours != nil:
		expiresAt = now.Add(time.Duration(*req.ExpiryHours) * time.Hour)
	default:
		expiresAt = now.Add(ttl)
		if expiresAt.After(req.StartTime) {
			expiresAt = req.StartTime
		}
	}

	if !expiresAt.After(now) {
		return time.Time{}, fmt.Errorf("%w: alternative expiry %s is not after %s", ErrInvalidInput, expiresAt.Format(time.RFC3339), now.Format(time.RFC3339))
	}
	return expiresAt, nil
}
