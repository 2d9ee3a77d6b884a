package request_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на бронирование
type Request struct {
	Actor           domain.Actor // Клиент, отправляющий запрос
	ServiceID       int64        // ID услуги
	PricingOptionID *int64       // Вариант цены (опционально)
	StartTime       time.Time    // Начало окна (абсолютное время)
	EndTime         time.Time    // Конец окна (абсолютное время)
	CustomerNotes   *string      // Заметки клиента (опционально)
}
