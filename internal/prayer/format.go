package prayer

import (
	"fmt"
	"time"
)

// NextPrayer returns the name of the first prayer whose time is strictly
// after now's minute of day. After Isha it wraps to Fajr of the next day.
func NextPrayer(t Times, now time.Time) string {
	current := now.Hour()*60 + now.Minute()
	for _, e := range t.Entries() {
		m, ok := minuteOfDay(e.Time)
		if ok && m > current {
			return e.Name
		}
	}
	return Fajr
}

// Format12h renders an HH:MM value on a 12-hour clock, e.g. "16:05" as
// "4:05 PM". Empty input gives empty output; unparsable input is returned
// unchanged.
func Format12h(hhmm string) string {
	if hhmm == "" {
		return ""
	}
	tm, err := time.Parse(clockLayout, hhmm)
	if err != nil {
		return hhmm
	}
	return tm.Format("3:04 PM")
}

func minuteOfDay(hhmm string) (int, bool) {
	tm, err := time.Parse(clockLayout, hhmm)
	if err != nil {
		return 0, false
	}
	return tm.Hour()*60 + tm.Minute(), true
}

// String renders all five times for logs and plain output.
func (t Times) String() string {
	return fmt.Sprintf("fajr=%s dhuhr=%s asr=%s maghrib=%s isha=%s", t.Fajr, t.Dhuhr, t.Asr, t.Maghrib, t.Isha)
}
