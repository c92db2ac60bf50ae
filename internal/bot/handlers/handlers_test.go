package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/hray3182/LedgerLine/internal/models"
	"github.com/hray3182/LedgerLine/internal/recurrence"
)

func TestParseWeekdayList(t *testing.T) {
	tests := []struct {
		input   string
		want    models.Weekdays
		wantErr bool
	}{
		{"1", models.Weekdays{time.Monday}, false},
		{"1,3,5", models.Weekdays{time.Monday, time.Wednesday, time.Friday}, false},
		{"7", models.Weekdays{time.Sunday}, false},
		{"1, 3", models.Weekdays{time.Monday, time.Wednesday}, false},
		{"1,1,1", models.Weekdays{time.Monday}, false},
		{"0", nil, true},
		{"8", nil, true},
		{"mon", nil, true},
		{"", nil, true},
	}
	for _, tt := range tests {
		got, err := parseWeekdayList(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseWeekdayList(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseWeekdayList(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseWeekdayList(%q) = %v, want %v", tt.input, got, tt.want)
				break
			}
		}
	}
}

func TestMonthlyAnchorKeepsRequestedDay(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)

	// The anchor must hold the requested day no matter how short the
	// creation month is.
	for day := 1; day <= 31; day++ {
		if got := monthlyAnchor(day, 2024, loc); got.Day() != day {
			t.Errorf("monthlyAnchor(%d) stored day %d", day, got.Day())
		}
	}

	// A day-31 reminder created during a 30-day month fires on the last
	// day of short months and on the 31st elsewhere, never on day 1.
	anchor := monthlyAnchor(31, 2024, loc)
	r := &models.Reminder{
		Frequency:  models.FrequencyMonthly,
		RemindTime: "08:00",
		RemindDate: &anchor,
	}
	if !recurrence.IsDue(r, time.Date(2024, time.April, 30, 8, 0, 0, 0, loc)) {
		t.Error("expected fire on April 30 (clamped)")
	}
	if !recurrence.IsDue(r, time.Date(2024, time.May, 31, 8, 0, 0, 0, loc)) {
		t.Error("expected fire on May 31")
	}
	if recurrence.IsDue(r, time.Date(2024, time.May, 1, 8, 0, 0, 0, loc)) {
		t.Error("must not fire on the 1st")
	}
}

func TestParseShift(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	today := time.Date(2024, 7, 15, 14, 0, 0, 0, loc)

	t.Run("time only defaults to today", func(t *testing.T) {
		in, err := parseShift(strings.Fields("09:00 18:00"), today, loc)
		if err != nil {
			t.Fatalf("parseShift: %v", err)
		}
		if !in.Date.Equal(today) {
			t.Errorf("Date = %v, want today", in.Date)
		}
		if in.Hours != 9 {
			t.Errorf("Hours = %v, want 9", in.Hours)
		}
	})

	t.Run("explicit date and note", func(t *testing.T) {
		in, err := parseShift(strings.Fields("2024-07-01 10:00 14:30 早班 代班"), today, loc)
		if err != nil {
			t.Fatalf("parseShift: %v", err)
		}
		if in.Date.Day() != 1 || in.Date.Month() != time.July {
			t.Errorf("Date = %v, want 2024-07-01", in.Date)
		}
		if in.Hours != 4.5 {
			t.Errorf("Hours = %v, want 4.5", in.Hours)
		}
		if in.Note != "早班 代班" {
			t.Errorf("Note = %q", in.Note)
		}
	})

	t.Run("overnight shift crosses midnight", func(t *testing.T) {
		in, err := parseShift(strings.Fields("22:00 06:00"), today, loc)
		if err != nil {
			t.Fatalf("parseShift: %v", err)
		}
		if in.Hours != 8 {
			t.Errorf("Hours = %v, want 8", in.Hours)
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, args := range []string{"", "09:00", "2024-07-01 09:00", "9am 5pm", "09:00 25:00"} {
			if _, err := parseShift(strings.Fields(args), today, loc); err == nil {
				t.Errorf("parseShift(%q) expected error", args)
			}
		}
	})
}
