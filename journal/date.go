package journal

import (
	"fmt"
	"time"
)

// Date is a calendar date without a time component.
type Date struct {
	time.Time
}

// NewDate parses a date in YYYY-MM-DD form.
func NewDate(value string) (*Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return &Date{Time: t}, nil
}

// MustDate is like NewDate but panics on a malformed value.
// It is intended for tests and static fixtures.
func MustDate(value string) *Date {
	d, err := NewDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf constructs a date from its components.
func DateOf(year int, month time.Month, day int) *Date {
	return &Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// String returns the date in YYYY-MM-DD form.
func (d *Date) String() string {
	return d.Format("2006-01-02")
}

// Equal reports whether both dates fall on the same day.
func (d *Date) Equal(other *Date) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.Time.Equal(other.Time)
}
