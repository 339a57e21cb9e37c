package booking

import "time"

// ReferenceMonth anchors the form's bare day-of-month selections to a
// real calendar month. The date picker this replaces was hard-coded to
// November 2024 and knows nothing about month boundaries, so the
// anchor is explicit and configurable instead of buried in the
// formatting code.
type ReferenceMonth struct {
	Year  int
	Month time.Month
}

// DefaultReferenceMonth matches the original booking calendar.
func DefaultReferenceMonth() ReferenceMonth {
	return ReferenceMonth{Year: 2024, Month: time.November}
}

// FormatDay resolves a day-of-month against the reference month as
// YYYY-MM-DD, the wire format for booking dates. Days past the end of
// the month normalize forward, matching time.Date semantics.
func (m ReferenceMonth) FormatDay(day int) string {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}
