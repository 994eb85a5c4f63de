package tracker

import (
	"fmt"

	"github.com/hyperengineering/lantern/internal/types"
)

// WindowDays is the fixed length of the tracking period.
const WindowDays = 30

// DefaultWindowStart is the first day of Ramadan 1447 AH.
const DefaultWindowStart types.DayKey = "2026-02-28"

// Window is the fixed 30-day tracking period anchored at Start.
type Window struct {
	Start types.DayKey
}

// NewWindow validates start and returns the window beginning on it.
func NewWindow(start string) (Window, error) {
	key, err := types.ParseDayKey(start)
	if err != nil {
		return Window{}, fmt.Errorf("window start: %w", err)
	}
	return Window{Start: key}, nil
}

// DefaultWindow returns the window anchored at DefaultWindowStart.
func DefaultWindow() Window {
	return Window{Start: DefaultWindowStart}
}

// DayNumber returns the 1-based position of today in the window, clamped to
// [1, WindowDays]. Days before the anchor report 1, days after the end 30.
func (w Window) DayNumber(today types.DayKey) int {
	diff, err := today.DaysSince(w.Start)
	if err != nil {
		return 1
	}
	return clamp(diff+1, 1, WindowDays)
}

// Keys returns the day keys of the window in order.
func (w Window) Keys() []types.DayKey {
	keys := make([]types.DayKey, WindowDays)
	for i := range keys {
		keys[i] = w.Start.AddDays(i)
	}
	return keys
}

// End returns the key of the last day of the window.
func (w Window) End() types.DayKey {
	return w.Start.AddDays(WindowDays - 1)
}

// Contains reports whether day falls inside the window.
func (w Window) Contains(day types.DayKey) bool {
	diff, err := day.DaysSince(w.Start)
	if err != nil {
		return false
	}
	return diff >= 0 && diff < WindowDays
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
