package booking

import (
	"errors"
	"fmt"
)

// Mode identifies which half of the booking form is active.
type Mode string

const (
	ModeNone   Mode = ""
	ModeHourly Mode = "hourly"
	ModeDaily  Mode = "daily"
)

var (
	ErrInvalidTime  = errors.New("time must be a half-hour slot in HH:MM format")
	ErrInvalidHours = errors.New("hours must be at least 1")
	ErrInvalidDay   = errors.New("day must be between 1 and 31")
)

// TimeOfDay is one of the 48 half-hour slots offered by the form.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" and rejects anything that is not a
// half-hour slot.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &hour, &minute); err != nil || len(s) != 5 || s[2] != ':' {
		return TimeOfDay{}, ErrInvalidTime
	}
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, ErrInvalidTime
	}
	if minute != 0 && minute != 30 {
		return TimeOfDay{}, ErrInvalidTime
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Slots returns every selectable start time in order.
func Slots() []TimeOfDay {
	slots := make([]TimeOfDay, 0, 48)
	for hour := 0; hour < 24; hour++ {
		slots = append(slots, TimeOfDay{Hour: hour}, TimeOfDay{Hour: hour, Minute: 30})
	}
	return slots
}

// Selection is a snapshot of the form state. Exactly one mode is set;
// ModeNone means nothing has been picked yet.
type Selection struct {
	Mode     Mode
	Start    TimeOfDay
	Hours    int
	DateFrom int
	DateTo   int
}

// Form holds the two mutually exclusive booking selections and
// computes the derived display values. Selecting one mode clears the
// other; a rendering layer should dim and disable the inactive half
// (HourlyActive/DailyActive expose which one that is).
type Form struct {
	hourlyRate float64
	start      *TimeOfDay
	hours      int
	dateFrom   int
	dateTo     int
}

// NewForm creates a form for a boat with the given hourly rate.
func NewForm(hourlyRate float64) *Form {
	return &Form{hourlyRate: hourlyRate, hours: 1}
}

// SetHourly activates the same-day mode. Any daily selection is
// cleared.
func (f *Form) SetHourly(start TimeOfDay, hours int) error {
	if hours < 1 {
		return ErrInvalidHours
	}
	if start.Minute != 0 && start.Minute != 30 {
		return ErrInvalidTime
	}
	if start.Hour < 0 || start.Hour > 23 {
		return ErrInvalidTime
	}

	s := start
	f.start = &s
	f.hours = hours
	f.dateFrom = 0
	f.dateTo = 0
	return nil
}

// SetDateFrom activates the multi-day mode with a range start. Any
// hourly selection is cleared.
func (f *Form) SetDateFrom(day int) error {
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	f.clearHourly()
	f.dateFrom = day
	return nil
}

// SetDateTo sets the multi-day range end. Any hourly selection is
// cleared.
func (f *Form) SetDateTo(day int) error {
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	f.clearHourly()
	f.dateTo = day
	return nil
}

func (f *Form) clearHourly() {
	f.start = nil
	f.hours = 1
}

// HourlyActive reports whether a start time is picked.
func (f *Form) HourlyActive() bool {
	return f.start != nil
}

// DailyActive reports whether either end of the date range is picked.
func (f *Form) DailyActive() bool {
	return f.dateFrom != 0 || f.dateTo != 0
}

// HourlyRate returns the boat's rental rate per hour.
func (f *Form) HourlyRate() float64 {
	return f.hourlyRate
}

// EndTime derives the return time for the hourly mode: start plus the
// selected hours, wrapping past midnight, minutes preserved. Empty
// when no start time is set.
func (f *Form) EndTime() string {
	if f.start == nil {
		return ""
	}
	end := TimeOfDay{
		Hour:   (f.start.Hour + f.hours) % 24,
		Minute: f.start.Minute,
	}
	return end.String()
}

// TotalPrice derives the price of the current selection. Hourly mode
// charges rate x hours; daily mode charges a full 24-hour rate per
// day with a one-day floor for inverted ranges. Zero when nothing is
// selected or the date range is half-filled.
func (f *Form) TotalPrice() float64 {
	if f.start != nil {
		return f.hourlyRate * float64(f.hours)
	}
	if f.dateFrom != 0 && f.dateTo != 0 {
		days := f.dateTo - f.dateFrom + 1
		if days < 1 {
			days = 1
		}
		return f.hourlyRate * 24 * float64(days)
	}
	return 0
}

// Selection snapshots the current state for submission.
func (f *Form) Selection() Selection {
	switch {
	case f.start != nil:
		return Selection{Mode: ModeHourly, Start: *f.start, Hours: f.hours}
	case f.dateFrom != 0 || f.dateTo != 0:
		return Selection{Mode: ModeDaily, DateFrom: f.dateFrom, DateTo: f.dateTo}
	default:
		return Selection{Mode: ModeNone}
	}
}
