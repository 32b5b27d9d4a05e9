package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the persisted form of calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day or location.
// The zero Date means "no date".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String formats the date as YYYY-MM-DD, or "" when unset
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// In returns midnight of the date in loc
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days later (or earlier for negative n)
func (d Date) AddDays(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, 0, n))
}

// DaysUntil returns the number of calendar days from d to other.
// It is negative when other is before d.
func (d Date) DaysUntil(other Date) int {
	// UTC midnights are exactly 24h apart, so the division is exact
	return int(other.In(time.UTC).Sub(d.In(time.UTC)).Hours() / 24)
}

// Before reports whether d is strictly before other
func (d Date) Before(other Date) bool {
	return d.DaysUntil(other) > 0
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other
func (d Date) Compare(other Date) int {
	switch days := d.DaysUntil(other); {
	case days > 0:
		return -1
	case days < 0:
		return 1
	}
	return 0
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}
