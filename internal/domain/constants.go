package domain

// Default availability values, used when a vendor has never saved settings
const (
	DefaultTimezone              = "UTC"
	DefaultMinBookingNoticeHours = 24
	DefaultMaxBookingAdvanceDays = 90
	DefaultSlotDurationMinutes   = 60
	DefaultPricingUnitMinutes    = 60
	DefaultListLimit             = 20
)

// Business validation constants
const (
	MinBookingNoticeHours  = 0
	MaxBookingNoticeHours  = 8760 // 1 year
	MinBookingAdvanceDays  = 1
	MaxBookingAdvanceDays  = 730 // 2 years
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 1440 // 1 day
	MaxNotesLength         = 1000
	MaxReasonLength        = 500
	MaxListLimit           = 100

	MaxAlternativeExpiryHours = MaxBookingAdvanceDays * 24
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses статусы, которые занимают время исполнителя.
// Только они участвуют в проверке пересечений и убирают слоты из выдачи.
var OccupyingStatuses = []BookingStatus{
	StatusAccepted,
	StatusAlternativeAccepted,
	StatusInProgress,
}

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []BookingStatus{
	StatusRejected,
	StatusAlternativeExpired,
	StatusCompleted,
	StatusCancelled,
}
