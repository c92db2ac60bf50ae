// Package recurrence decides whether a reminder is due at a given instant.
// Evaluation is pure and minute-granular: seconds never matter, and the
// caller is expected to pass "now" already converted to the operating zone.
package recurrence

import (
	"time"

	"github.com/hray3182/LedgerLine/internal/models"
)

// IsDue reports whether the reminder should fire at now.
//
// once:    remind_date and remind_time both match.
// daily:   remind_time matches.
// weekly:  now's weekday is in the weekday set and remind_time matches.
//          Rows predating the weekday set fall back to the weekday implied
//          by remind_date (legacy compatibility; new weekly reminders are
//          required to carry an explicit set).
// monthly: day-of-month from remind_date matches and remind_time matches.
//          A day past the end of a short month fires on the month's last
//          day instead of skipping (day 31 fires on Apr 30, Feb 28/29).
//
// Malformed remind_time parses to "never due". Weekday sets are validated
// at the store boundary; a weekly reminder whose persisted set held no
// valid values is flagged there and never matches.
func IsDue(r *models.Reminder, now time.Time) bool {
	hour, minute, ok := r.ClockTime()
	if !ok {
		return false
	}
	if now.Hour() != hour || now.Minute() != minute {
		return false
	}

	switch r.Frequency {
	case models.FrequencyOnce:
		return r.RemindDate != nil && sameDate(*r.RemindDate, now)

	case models.FrequencyDaily:
		return true

	case models.FrequencyWeekly:
		if len(r.Weekdays) > 0 {
			return r.Weekdays.Contains(now.Weekday())
		}
		// The remind_date fallback is for rows that never had a weekday
		// set; a set that was present but held no valid values is a
		// non-match, not a fallback.
		if r.WeekdaysMalformed {
			return false
		}
		if r.RemindDate != nil {
			return r.RemindDate.Weekday() == now.Weekday()
		}
		return false

	case models.FrequencyMonthly:
		if r.RemindDate == nil {
			return false
		}
		return now.Day() == clampDay(r.RemindDate.Day(), now)
	}

	return false
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// clampDay maps a target day-of-month into the month of t, using the last
// day of the month when the target does not exist in it.
func clampDay(day int, t time.Time) int {
	if last := lastDayOfMonth(t); day > last {
		return last
	}
	return day
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).
		AddDate(0, 1, -1).Day()
}
