package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Weekday is a lowercase English day name used as the working-hours key
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// WeekdayOf converts time.Weekday to Weekday
func WeekdayOf(d time.Weekday) Weekday {
	return Weekday(strings.ToLower(d.String()))
}

// IsValid returns true for a known weekday name
func (w Weekday) IsValid() bool {
	switch w {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// TimeRange is a local wall-clock range [Start, End) within one day.
// End may be "24:00", meaning the next local midnight.
type TimeRange struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// WeeklySchedule maps a weekday to its ordered, non-overlapping working ranges
type WeeklySchedule map[Weekday][]TimeRange

// For returns the ranges for the given weekday
func (w WeeklySchedule) For(day time.Weekday) []TimeRange {
	if w == nil {
		return nil
	}
	return w[WeekdayOf(day)]
}

// Validate checks every day: known weekday, valid HH:MM (24:00 only as an end), start < end, no overlaps.
// Ranges are sorted by start as a side effect.
func (w WeeklySchedule) Validate() error {
	for day, ranges := range w {
		if !day.IsValid() {
			return fmt.Errorf("unknown weekday %q", day)
		}

		for _, r := range ranges {
			if err := r.Start.Validate(); err != nil {
				return fmt.Errorf("%s: %w", day, err)
			}
			if err := r.End.ValidateEnd(); err != nil {
				return fmt.Errorf("%s: %w", day, err)
			}
			if !r.Start.IsBefore(r.End) {
				return fmt.Errorf("%s: range %s-%s must end after it starts", day, r.Start, r.End)
			}
		}

		sort.Slice(ranges, func(i, j int) bool {
			return ranges[i].Start.IsBefore(ranges[j].Start)
		})

		for i := 1; i < len(ranges); i++ {
			if ranges[i].Start.IsBefore(ranges[i-1].End) {
				return fmt.Errorf("%s: ranges %s-%s and %s-%s overlap",
					day, ranges[i-1].Start, ranges[i-1].End, ranges[i].Start, ranges[i].End)
			}
		}
	}
	return nil
}

// Value implements driver.Valuer (stored as JSONB)
func (w WeeklySchedule) Value() (driver.Value, error) {
	if w == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(w)
}

// Scan implements sql.Scanner
func (w *WeeklySchedule) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*w = WeeklySchedule{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into WeeklySchedule", src)
	}

	schedule := WeeklySchedule{}
	if err := json.Unmarshal(data, &schedule); err != nil {
		return err
	}
	*w = schedule
	return nil
}

// ConflictScope defines which bookings compete for the same time
type ConflictScope string

const (
	// ConflictScopeService - only bookings of the same service conflict
	ConflictScopeService ConflictScope = "service"
	// ConflictScopeVendor - any two bookings of the vendor conflict
	ConflictScopeVendor ConflictScope = "vendor"
)

// IsValid returns true for a known scope
func (c ConflictScope) IsValid() bool {
	return c == ConflictScopeService || c == ConflictScopeVendor
}

// AvailabilitySettings is the vendor's recurring availability
type AvailabilitySettings struct {
	VendorID              int64
	WorkingHours          WeeklySchedule
	Timezone              string
	MinBookingNoticeHours int
	MaxBookingAdvanceDays int
	ConflictScope         ConflictScope
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// DefaultAvailabilitySettings returns settings used when the vendor has none stored.
// Empty working hours mean no slots are offered.
func DefaultAvailabilitySettings(vendorID int64) *AvailabilitySettings {
	return &AvailabilitySettings{
		VendorID:              vendorID,
		WorkingHours:          WeeklySchedule{},
		Timezone:              DefaultTimezone,
		MinBookingNoticeHours: DefaultMinBookingNoticeHours,
		MaxBookingAdvanceDays: DefaultMaxBookingAdvanceDays,
		ConflictScope:         ConflictScopeService,
	}
}

// Location loads the vendor's IANA timezone
func (s *AvailabilitySettings) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// ConflictServiceID returns the service filter for overlap checks under the vendor's scope
func (s *AvailabilitySettings) ConflictServiceID(serviceID int64) *int64 {
	if s.ConflictScope == ConflictScopeVendor {
		return nil
	}
	return &serviceID
}

// BookingWindow returns the earliest and latest allowed slot start at now
func (s *AvailabilitySettings) BookingWindow(now time.Time) (earliest, latest time.Time) {
	earliest = now.Add(time.Duration(s.MinBookingNoticeHours) * time.Hour)
	latest = now.Add(time.Duration(s.MaxBookingAdvanceDays) * 24 * time.Hour)
	return earliest, latest
}

// Validate checks all fields of the settings
func (s *AvailabilitySettings) Validate() error {
	if s.Timezone == "" {
		return errors.New("timezone is required")
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q", s.Timezone)
	}
	if s.MinBookingNoticeHours < MinBookingNoticeHours || s.MinBookingNoticeHours > MaxBookingNoticeHours {
		return fmt.Errorf("minBookingNoticeHours must be within [%d, %d]", MinBookingNoticeHours, MaxBookingNoticeHours)
	}
	if s.MaxBookingAdvanceDays < MinBookingAdvanceDays || s.MaxBookingAdvanceDays > MaxBookingAdvanceDays {
		return fmt.Errorf("maxBookingAdvanceDays must be within [%d, %d]", MinBookingAdvanceDays, MaxBookingAdvanceDays)
	}
	if !s.ConflictScope.IsValid() {
		return fmt.Errorf("unknown conflictScope %q", s.ConflictScope)
	}
	return s.WorkingHours.Validate()
}

// CalendarBlock is a one-off period when the vendor is unavailable.
// ServiceID == nil blocks every service of the vendor.
type CalendarBlock struct {
	ID        int64
	VendorID  int64
	ServiceID *int64
	StartTime time.Time
	EndTime   time.Time
	Reason    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps reports whether the block intersects [start, end)
func (b *CalendarBlock) Overlaps(start, end time.Time) bool {
	return Overlaps(b.StartTime, b.EndTime, start, end)
}

// AppliesTo returns true if the block affects the given service
func (b *CalendarBlock) AppliesTo(serviceID int64) bool {
	return b.ServiceID == nil || *b.ServiceID == serviceID
}

// Validate checks the block window and reason
func (b *CalendarBlock) Validate() error {
	if b.StartTime.IsZero() || b.EndTime.IsZero() {
		return errors.New("startTime and endTime are required")
	}
	if !b.EndTime.After(b.StartTime) {
		return errors.New("endTime must be after startTime")
	}
	if b.Reason != nil && len(*b.Reason) > MaxReasonLength {
		return fmt.Errorf("reason must be at most %d characters", MaxReasonLength)
	}
	return nil
}

// CalendarBlockPatch partial update of a block
type CalendarBlockPatch struct {
	ServiceID      *int64
	ClearServiceID bool
	StartTime      *time.Time
	EndTime        *time.Time
	Reason         *string
}

// Apply applies the patch to the block
func (p CalendarBlockPatch) Apply(b *CalendarBlock) {
	if p.ClearServiceID {
		b.ServiceID = nil
	} else if p.ServiceID != nil {
		b.ServiceID = p.ServiceID
	}
	if p.StartTime != nil {
		b.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		b.EndTime = *p.EndTime
	}
	if p.Reason != nil {
		b.Reason = p.Reason
	}
}

// Slot is an available, bookable window returned by slot computation
type Slot struct {
	StartTime time.Time
	EndTime   time.Time
}
