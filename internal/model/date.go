package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date with no time component. It is stored normalized to
// local midnight so that day-granularity comparisons never shift across the
// UTC boundary: "2024-05-01" is May 1st for the user regardless of timezone,
// never "April 30, 17:00" the way a UTC-midnight parse would render it west
// of Greenwich.
type Date struct {
	t time.Time
}

// NewDate builds a Date from calendar components in the local zone.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// DateOf truncates an instant to its local calendar day.
func DateOf(t time.Time) Date {
	lt := t.Local()
	return NewDate(lt.Year(), lt.Month(), lt.Day())
}

// ParseDate parses "YYYY-MM-DD" as a local calendar date. Longer strings
// (full RFC3339 timestamps from older saved data) are accepted by taking
// their date prefix.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// Time returns the date as local midnight.
func (d Date) Time() time.Time { return d.t }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }

// AddDays returns the date n calendar days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.t.AddDate(0, 0, n))
}

// Add applies calendar arithmetic with the standard library's normalization:
// overflowing a short month rolls into the next one (Jan 31 + 1 month is
// March 2 or 3, depending on leap year).
func (d Date) Add(years, months, days int) Date {
	return DateOf(d.t.AddDate(years, months, days))
}

// DaysUntil returns the signed whole-day distance from d to o. Rounding
// absorbs the odd-length days that DST transitions produce.
func (d Date) DaysUntil(o Date) int {
	return int(math.Round(o.t.Sub(d.t).Hours() / 24))
}

func (d Date) String() string { return d.t.Format(dateLayout) }

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// NormalizeDueDate maps a pointer to the zero Date to nil. JSON decoding
// turns `"dueDate": ""` into a non-nil pointer holding the zero value;
// absence and empty must mean the same thing downstream.
func NormalizeDueDate(d *Date) *Date {
	if d != nil && d.IsZero() {
		return nil
	}
	return d
}

// UnmarshalJSON accepts "YYYY-MM-DD" or a longer ISO timestamp prefix.
// Empty and null decode to the zero Date; item-level normalization maps
// that back to "no date".
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
