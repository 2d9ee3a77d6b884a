package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const timeStringLayout = "15:04"

// EndOfDay конец суток; допустим только как правая граница интервала
const EndOfDay TimeString = "24:00"

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString время суток в формате "HH:MM" (без даты и часового пояса)
type TimeString string

// NewTimeString создает TimeString из time.Time (берутся только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeStringLayout))
}

// NewTimeStringFromString парсит и валидирует строку "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// Validate проверяет формат "HH:MM"
func (t TimeString) Validate() error {
	if len(t) != len(timeStringLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	if _, err := time.Parse(timeStringLayout, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// ValidateEnd проверяет правую границу интервала: "HH:MM" или "24:00"
func (t TimeString) ValidateEnd() error {
	if t == EndOfDay {
		return nil
	}
	return t.Validate()
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

// String реализует fmt.Stringer
func (t TimeString) String() string {
	return string(t)
}

// Minutes возвращает количество минут от начала суток
func (t TimeString) Minutes() (int, error) {
	if t == EndOfDay {
		return 24 * 60, nil
	}
	parsed, err := time.Parse(timeStringLayout, string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// Clock возвращает часы и минуты; для "24:00" это 24, 0
func (t TimeString) Clock() (hour, minute int, err error) {
	m, err := t.Minutes()
	if err != nil {
		return 0, 0, err
	}
	return m / 60, m % 60, nil
}

// IsBefore возвращает true, если t строго раньше other.
// Некорректные значения сравниваются лексикографически.
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	if errA != nil || errB != nil {
		return t < other
	}
	return a < b
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(t)
}

// AddMinutes прибавляет минуты; результат не может выйти за пределы суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	m, err := t.Minutes()
	if err != nil {
		return "", err
	}
	total := m + minutes
	if total < 0 || total >= 24*60 {
		return "", fmt.Errorf("%w: %s%+d minutes is out of day bounds", ErrInvalidTimeString, t, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// MarshalJSON сериализует как строку "HH:MM"
func (t TimeString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// UnmarshalJSON десериализует строку "HH:MM" или "24:00" с валидацией формата.
// Допустимость "24:00" в конкретной позиции проверяет вызывающий код.
func (t *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed := TimeString(s)
	if err := parsed.ValidateEnd(); err != nil {
		return err
	}
	*t = parsed
	return nil
}
