package booking_transition

import "time"

// AcceptRequest модель запроса на подтверждение
type AcceptRequest struct {
	VendorNotes *string // сообщение клиенту (опционально)
}

// ProposeAlternativeRequest модель запроса на предложение другого времени.
// Срок ответа: ExpiresAt, иначе now + ExpiryHours, иначе now + alternativeTTL (но не позже начала альтернативы).
type ProposeAlternativeRequest struct {
	StartTime   time.Time
	EndTime     time.Time
	ExpiresAt   *time.Time
	ExpiryHours *int
	VendorNotes *string
}

// CancelRequest модель запроса на отмену
type CancelRequest struct {
	Reason string
}

// RejectRequest модель запроса на отклонение
type RejectRequest struct {
	Reason *string
}

// StartRequest модель запроса на начало оказания услуги
type StartRequest struct {
	Override bool // исполнитель начинает раньше времени окна
}
