package recurrence

import (
	"testing"
	"time"

	"github.com/hray3182/LedgerLine/internal/models"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestIsDueOnce(t *testing.T) {
	r := &models.Reminder{
		Frequency:  models.FrequencyOnce,
		RemindTime: "08:00",
		RemindDate: date(2024, time.March, 15),
	}

	if !IsDue(r, at(2024, time.March, 15, 8, 0)) {
		t.Error("expected due at exact date and time")
	}
	if IsDue(r, at(2024, time.March, 16, 8, 0)) {
		t.Error("should not be due on a different date")
	}
	if IsDue(r, at(2024, time.March, 15, 8, 1)) {
		t.Error("should not be due at a different minute")
	}

	r.RemindDate = nil
	if IsDue(r, at(2024, time.March, 15, 8, 0)) {
		t.Error("once reminder without remind_date must never be due")
	}
}

func TestIsDueDailyMinuteGranularity(t *testing.T) {
	r := &models.Reminder{Frequency: models.FrequencyDaily, RemindTime: "08:00"}

	for day := 1; day <= 5; day++ {
		if !IsDue(r, at(2024, time.June, day, 8, 0)) {
			t.Errorf("day %d: expected due at 08:00", day)
		}
	}
	if IsDue(r, at(2024, time.June, 1, 7, 59)) {
		t.Error("should not be due at 07:59")
	}
	if IsDue(r, at(2024, time.June, 1, 8, 1)) {
		t.Error("should not be due at 08:01")
	}

	// Seconds are ignored.
	withSeconds := time.Date(2024, time.June, 1, 8, 0, 42, 0, time.UTC)
	if !IsDue(r, withSeconds) {
		t.Error("seconds must not affect the minute match")
	}
}

func TestIsDueWeeklySet(t *testing.T) {
	r := &models.Reminder{
		Frequency:  models.FrequencyWeekly,
		RemindTime: "09:30",
		Weekdays:   models.Weekdays{time.Tuesday, time.Thursday},
	}

	// Simulate two weeks of minute checks at 09:30: exactly 4 fires.
	start := at(2024, time.July, 1, 9, 30) // a Monday
	fires := 0
	for day := 0; day < 14; day++ {
		if IsDue(r, start.AddDate(0, 0, day)) {
			fires++
		}
	}
	if fires != 4 {
		t.Errorf("expected 4 fires across two weeks, got %d", fires)
	}

	if IsDue(r, at(2024, time.July, 2, 9, 31)) {
		t.Error("should not fire off the configured minute")
	}
}

func TestIsDueWeeklyLegacyFallback(t *testing.T) {
	// No weekday set: the weekday implied by remind_date applies.
	r := &models.Reminder{
		Frequency:  models.FrequencyWeekly,
		RemindTime: "18:00",
		RemindDate: date(2024, time.January, 3), // a Wednesday
	}

	if !IsDue(r, at(2024, time.July, 3, 18, 0)) { // Wednesday
		t.Error("expected fallback fire on remind_date's weekday")
	}
	if IsDue(r, at(2024, time.July, 4, 18, 0)) { // Thursday
		t.Error("should not fire on other weekdays")
	}

	r.RemindDate = nil
	if IsDue(r, at(2024, time.July, 3, 18, 0)) {
		t.Error("weekly reminder with neither weekdays nor remind_date must not fire")
	}
}

func TestIsDueWeeklyMalformedSetNeverMatches(t *testing.T) {
	// A stored weekday payload that parsed to nothing (all values out of
	// range) must not degrade into the legacy remind_date fallback.
	weekdays, err := models.ParseWeekdays([]int32{9, 12})
	if err == nil || len(weekdays) != 0 {
		t.Fatalf("ParseWeekdays([9 12]) = %v, %v; want empty set and error", weekdays, err)
	}
	r := &models.Reminder{
		Frequency:         models.FrequencyWeekly,
		RemindTime:        "18:00",
		RemindDate:        date(2024, time.January, 3), // a Wednesday
		Weekdays:          weekdays,
		WeekdaysMalformed: true,
	}

	for day := 0; day < 7; day++ {
		if now := at(2024, time.July, 1, 18, 0).AddDate(0, 0, day); IsDue(r, now) {
			t.Errorf("malformed weekday set fired on %s", now.Weekday())
		}
	}

	if _, err := NextOccurrence(r, at(2024, time.July, 1, 12, 0)); err == nil {
		t.Error("NextOccurrence must reject a malformed weekday set")
	}
}

func TestIsDueMonthlyClampsToShortMonths(t *testing.T) {
	r := &models.Reminder{
		Frequency:  models.FrequencyMonthly,
		RemindTime: "10:00",
		RemindDate: date(2024, time.January, 31),
	}

	cases := []struct {
		now  time.Time
		want bool
	}{
		{at(2024, time.March, 31, 10, 0), true},     // day exists
		{at(2024, time.April, 30, 10, 0), true},     // clamped to last day
		{at(2024, time.April, 29, 10, 0), false},    // not yet
		{at(2024, time.February, 29, 10, 0), true},  // leap February
		{at(2023, time.February, 28, 10, 0), true},  // non-leap February
		{at(2024, time.February, 28, 10, 0), false}, // leap year: 29th is the last day
	}
	for _, c := range cases {
		if got := IsDue(r, c.now); got != c.want {
			t.Errorf("IsDue at %s = %v, want %v", c.now.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestIsDueMalformedTime(t *testing.T) {
	r := &models.Reminder{Frequency: models.FrequencyDaily, RemindTime: "8am"}
	if IsDue(r, at(2024, time.June, 1, 8, 0)) {
		t.Error("malformed remind_time must evaluate to not due")
	}
}

func TestNextOccurrenceDaily(t *testing.T) {
	r := &models.Reminder{Frequency: models.FrequencyDaily, RemindTime: "08:00"}

	next, err := NextOccurrence(r, at(2024, time.June, 1, 9, 0))
	if err != nil {
		t.Fatalf("NextOccurrence: %v", err)
	}
	if next == nil {
		t.Fatal("expected a next occurrence")
	}
	if want := at(2024, time.June, 2, 8, 0); !next.Equal(want) {
		t.Errorf("next = %s, want %s", next, want)
	}
}

func TestNextOccurrenceWeekly(t *testing.T) {
	r := &models.Reminder{
		Frequency:  models.FrequencyWeekly,
		RemindTime: "09:30",
		Weekdays:   models.Weekdays{time.Tuesday, time.Thursday},
	}

	// Monday → the coming Tuesday.
	next, err := NextOccurrence(r, at(2024, time.July, 1, 12, 0))
	if err != nil {
		t.Fatalf("NextOccurrence: %v", err)
	}
	if next == nil {
		t.Fatal("expected a next occurrence")
	}
	if want := at(2024, time.July, 2, 9, 30); !next.Equal(want) {
		t.Errorf("next = %s, want %s", next, want)
	}
}

func TestNextOccurrenceOncePassed(t *testing.T) {
	r := &models.Reminder{
		Frequency:  models.FrequencyOnce,
		RemindTime: "08:00",
		RemindDate: date(2024, time.March, 15),
	}
	next, err := NextOccurrence(r, at(2024, time.March, 15, 8, 0))
	if err != nil {
		t.Fatalf("NextOccurrence: %v", err)
	}
	if next != nil {
		t.Errorf("a fired once reminder has no next occurrence, got %s", next)
	}
}

func TestNextOccurrenceMonthlyClamp(t *testing.T) {
	r := &models.Reminder{
		Frequency:  models.FrequencyMonthly,
		RemindTime: "10:00",
		RemindDate: date(2024, time.January, 31),
	}
	next, err := NextOccurrence(r, at(2024, time.April, 1, 0, 0))
	if err != nil {
		t.Fatalf("NextOccurrence: %v", err)
	}
	if want := at(2024, time.April, 30, 10, 0); next == nil || !next.Equal(want) {
		t.Errorf("next = %v, want %s", next, want)
	}
}
