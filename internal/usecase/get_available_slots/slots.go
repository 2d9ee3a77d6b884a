package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// slotInput входные данные расчёта слотов. Расчёт не обращается к часам и хранилищам.
type slotInput struct {
	Settings  *domain.AvailabilitySettings
	Location  *time.Location
	Day       time.Time // полночь дня запроса в часовом поясе исполнителя
	ServiceID int64
	Duration  time.Duration
	Blocks    []*domain.CalendarBlock
	Occupying []*domain.Booking
	Now       time.Time
}

// computeSlots нарезает рабочие интервалы дня на слоты длиной Duration и отбрасывает
// слоты, пересекающиеся с блокировками и занятыми бронированиями, а также слоты вне окна бронирования.
//
// Все сравнения выполняются над абсолютными моментами времени; календарь исполнителя
// используется только для выбора дня недели и построения границ рабочих интервалов.
func computeSlots(in slotInput) []domain.Slot {
	slots := make([]domain.Slot, 0)

	if in.Duration <= 0 {
		return slots
	}

	ranges := in.Settings.WorkingHours.For(in.Day.Weekday())
	if len(ranges) == 0 {
		return slots
	}

	earliest, latest := in.Settings.BookingWindow(in.Now)

	for _, r := range ranges {
		rangeStart, rangeEnd, err := rangeInstants(in.Day, r, in.Location)
		if err != nil {
			continue
		}

		// Остаток короче Duration отбрасывается
		for start := rangeStart; !start.Add(in.Duration).After(rangeEnd); start = start.Add(in.Duration) {
			end := start.Add(in.Duration)

			if start.Before(earliest) || start.After(latest) {
				continue
			}
			if isBlocked(start, end, in.ServiceID, in.Blocks) {
				continue
			}
			if isOccupied(start, end, in.ServiceID, in.Settings.ConflictScope, in.Occupying) {
				continue
			}

			slots = append(slots, domain.Slot{StartTime: start, EndTime: end})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.Before(slots[j].StartTime)
	})

	return slots
}

// rangeInstants переводит локальный интервал "HH:MM-HH:MM" дня day в абсолютные моменты
func rangeInstants(day time.Time, r domain.TimeRange, loc *time.Location) (time.Time, time.Time, error) {
	startHour, startMinute, err := r.Start.Clock()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endHour, endMinute, err := r.End.Clock()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	// "24:00" нормализуется time.Date в полночь следующего локального дня
	y, m, d := day.Date()
	start := time.Date(y, m, d, startHour, startMinute, 0, 0, loc)
	end := time.Date(y, m, d, endHour, endMinute, 0, 0, loc)
	return start, end, nil
}

// isBlocked проверяет пересечение [start, end) с блокировкой, действующей для услуги
func isBlocked(start, end time.Time, serviceID int64, blocks []*domain.CalendarBlock) bool {
	for _, block := range blocks {
		if block.AppliesTo(serviceID) && block.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// isOccupied проверяет пересечение [start, end) с занимающим время бронированием.
// При scope=service учитываются только бронирования той же услуги.
func isOccupied(start, end time.Time, serviceID int64, scope domain.ConflictScope, bookings []*domain.Booking) bool {
	for _, booking := range bookings {
		if !booking.Status.IsOccupying() {
			continue
		}
		if scope != domain.ConflictScopeVendor && booking.ServiceID != serviceID {
			continue
		}
		if booking.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// dayBounds возвращает [полночь дня, полночь следующего дня) в часовом поясе loc
func dayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}
