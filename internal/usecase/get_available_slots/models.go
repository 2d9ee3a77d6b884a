package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID       int64  // ID услуги
	Date            string // Дата в календаре исполнителя, YYYY-MM-DD
	DurationMinutes *int   // Явная длительность слота (опционально)
	PricingOptionID *int64 // Вариант цены, задающий длительность (опционально)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ServiceID       int64
	VendorID        int64
	Date            string
	Timezone        string
	DurationMinutes int
	Slots           []Slot
}

// Slot модель временного слота (абсолютные моменты времени)
type Slot struct {
	StartTime time.Time
	EndTime   time.Time
}
