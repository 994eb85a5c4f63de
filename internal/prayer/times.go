// Package prayer looks up daily prayer times from the Aladhan API and caches
// them per city and date through the persistence adapter.
package prayer

import (
	"errors"
	"fmt"
	"time"

	"github.com/hyperengineering/lantern/internal/types"
)

// ErrUpstream is returned when prayer times could not be obtained.
var ErrUpstream = errors.New("prayer times unavailable")

// Prayer names, in daily order. They match the built-in salah task ids.
const (
	Fajr    = "fajr"
	Dhuhr   = "dhuhr"
	Asr     = "asr"
	Maghrib = "maghrib"
	Isha    = "isha"
)

// Names lists the five daily prayers in order.
var Names = []string{Fajr, Dhuhr, Asr, Maghrib, Isha}

const clockLayout = "15:04"

// Times holds the five daily prayer times as HH:MM in the city's local time.
type Times struct {
	Fajr    string `json:"fajr"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
}

// Entry is one named prayer time.
type Entry struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

// Entries returns the times in daily order.
func (t Times) Entries() []Entry {
	return []Entry{
		{Fajr, t.Fajr},
		{Dhuhr, t.Dhuhr},
		{Asr, t.Asr},
		{Maghrib, t.Maghrib},
		{Isha, t.Isha},
	}
}

// Validate reports the first time that is not a valid HH:MM value.
func (t Times) Validate() error {
	for _, e := range t.Entries() {
		if _, err := time.Parse(clockLayout, e.Time); err != nil {
			return fmt.Errorf("%s time %q: %w", e.Name, e.Time, err)
		}
	}
	return nil
}

// Query identifies one day of prayer times for a location.
type Query struct {
	City    string
	Country string
	Method  int
	Date    types.DayKey
}
