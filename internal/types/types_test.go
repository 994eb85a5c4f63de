package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTask_PersistedShape(t *testing.T) {
	task := Task{ID: "custom_01JTEST", Category: CategoryPersonal, Label: "Read a book", Icon: "📚"}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, k := range []string{"id", "category", "label", "icon"} {
		if _, ok := fields[k]; !ok {
			t.Errorf("field %q missing from %s", k, data)
		}
	}
	if fields["category"] != "personal" {
		t.Errorf("category = %q, want personal", fields["category"])
	}
}

func TestCategory_IsValid(t *testing.T) {
	for _, c := range Categories {
		if !c.IsValid() {
			t.Errorf("%q.IsValid() = false", c)
		}
	}
	for _, c := range []Category{"", "ibadah", "Worship"} {
		if c.IsValid() {
			t.Errorf("%q.IsValid() = true", c)
		}
	}
}

func TestDayKeyOf_UsesLocation(t *testing.T) {
	dhaka := time.FixedZone("BST", 6*60*60)
	// 20:30 UTC on Feb 27 is 02:30 on Feb 28 in Dhaka.
	instant := time.Date(2026, 2, 27, 20, 30, 0, 0, time.UTC)

	if got := DayKeyOf(instant, time.UTC); got != "2026-02-27" {
		t.Errorf("DayKeyOf(UTC) = %q, want 2026-02-27", got)
	}
	if got := DayKeyOf(instant, dhaka); got != "2026-02-28" {
		t.Errorf("DayKeyOf(Dhaka) = %q, want 2026-02-28", got)
	}
}

func TestParseDayKey(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2026-02-28", false},
		{"2026-2-28", true},
		{"2026-02-30", true},
		{"28-02-2026", true},
		{"", true},
		{"2026-02-28T00:00:00Z", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDayKey(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDayKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.in {
				t.Errorf("ParseDayKey(%q) = %q", tt.in, got)
			}
		})
	}
}

func TestDayKey_AddDays(t *testing.T) {
	tests := []struct {
		start DayKey
		n     int
		want  DayKey
	}{
		{"2026-02-28", 0, "2026-02-28"},
		{"2026-02-28", 1, "2026-03-01"},
		{"2026-02-28", 29, "2026-03-29"},
		{"2024-02-28", 1, "2024-02-29"},
		{"2026-03-01", -1, "2026-02-28"},
	}

	for _, tt := range tests {
		if got := tt.start.AddDays(tt.n); got != tt.want {
			t.Errorf("%s.AddDays(%d) = %s, want %s", tt.start, tt.n, got, tt.want)
		}
	}
}

func TestDayKey_DaysSince(t *testing.T) {
	got, err := DayKey("2026-03-05").DaysSince("2026-02-28")
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Errorf("DaysSince = %d, want 5", got)
	}

	got, err = DayKey("2026-02-20").DaysSince("2026-02-28")
	if err != nil {
		t.Fatal(err)
	}
	if got != -8 {
		t.Errorf("DaysSince = %d, want -8", got)
	}

	if _, err := DayKey("bogus").DaysSince("2026-02-28"); err == nil {
		t.Error("expected error for invalid key")
	}
}

func TestDayKey_Midnight(t *testing.T) {
	loc := time.FixedZone("X", 3*60*60)
	m, err := DayKey("2026-03-05").Midnight(loc)
	if err != nil {
		t.Fatal(err)
	}
	if m.Hour() != 0 || m.Minute() != 0 || m.Location() != loc || m.Day() != 5 {
		t.Errorf("Midnight = %v", m)
	}
}
