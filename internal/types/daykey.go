package types

import (
	"fmt"
	"time"
)

// DayKeyLayout is the ISO calendar date layout used for all day-scoped state.
const DayKeyLayout = "2006-01-02"

// DayKey is a calendar date serialized as YYYY-MM-DD.
type DayKey string

// DayKeyOf returns the key of the calendar day containing t in loc.
// A nil loc uses t's own location.
func DayKeyOf(t time.Time, loc *time.Location) DayKey {
	if loc != nil {
		t = t.In(loc)
	}
	return DayKey(t.Format(DayKeyLayout))
}

// ParseDayKey validates s as a YYYY-MM-DD calendar date.
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse(DayKeyLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid day key %q: %w", s, err)
	}
	return DayKey(t.Format(DayKeyLayout)), nil
}

// Midnight returns midnight of the day in loc. A nil loc means time.Local.
func (d DayKey) Midnight(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DayKeyLayout, string(d), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", d, err)
	}
	return t, nil
}

// AddDays returns the key n calendar days after d. Invalid keys are returned
// unchanged.
func (d DayKey) AddDays(n int) DayKey {
	t, err := time.Parse(DayKeyLayout, string(d))
	if err != nil {
		return d
	}
	return DayKey(t.AddDate(0, 0, n).Format(DayKeyLayout))
}

// DaysSince returns the number of whole calendar days from other to d.
// Both keys are compared as UTC dates so DST transitions cannot shift the count.
func (d DayKey) DaysSince(other DayKey) (int, error) {
	a, err := time.Parse(DayKeyLayout, string(d))
	if err != nil {
		return 0, fmt.Errorf("invalid day key %q: %w", d, err)
	}
	b, err := time.Parse(DayKeyLayout, string(other))
	if err != nil {
		return 0, fmt.Errorf("invalid day key %q: %w", other, err)
	}
	return int(a.Sub(b).Hours() / 24), nil
}

func (d DayKey) String() string {
	return string(d)
}
