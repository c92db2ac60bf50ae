package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/hray3182/LedgerLine/internal/models"
)

// rruleWeekday maps time.Weekday (0 = Sunday) to rrule weekday constants.
var rruleWeekday = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// NextOccurrence returns the next time the reminder would fire strictly
// after the given instant, or nil when there is none (a once reminder whose
// moment has passed). It is used for listing previews only; due decisions
// are made by IsDue.
func NextOccurrence(r *models.Reminder, after time.Time) (*time.Time, error) {
	hour, minute, ok := r.ClockTime()
	if !ok {
		return nil, fmt.Errorf("malformed remind_time %q", r.RemindTime)
	}
	loc := after.Location()

	switch r.Frequency {
	case models.FrequencyOnce:
		if r.RemindDate == nil {
			return nil, fmt.Errorf("once reminder %d has no remind_date", r.ID)
		}
		at := time.Date(r.RemindDate.Year(), r.RemindDate.Month(), r.RemindDate.Day(),
			hour, minute, 0, 0, loc)
		if !at.After(after) {
			return nil, nil
		}
		return &at, nil

	case models.FrequencyDaily:
		return rruleNext(rrule.ROption{Freq: rrule.DAILY}, hour, minute, after)

	case models.FrequencyWeekly:
		days := r.Weekdays
		if len(days) == 0 {
			if r.WeekdaysMalformed {
				return nil, fmt.Errorf("weekly reminder %d has a malformed weekday set", r.ID)
			}
			if r.RemindDate == nil {
				return nil, fmt.Errorf("weekly reminder %d has neither weekdays nor remind_date", r.ID)
			}
			days = models.Weekdays{r.RemindDate.Weekday()}
		}
		byday := make([]rrule.Weekday, len(days))
		for i, d := range days {
			byday[i] = rruleWeekday[d]
		}
		return rruleNext(rrule.ROption{Freq: rrule.WEEKLY, Byweekday: byday}, hour, minute, after)

	case models.FrequencyMonthly:
		// Computed directly: RRULE has no way to express the "fire on the
		// last day of short months" clamp that IsDue applies.
		if r.RemindDate == nil {
			return nil, fmt.Errorf("monthly reminder %d has no remind_date", r.ID)
		}
		day := r.RemindDate.Day()
		for i := 0; i < 13; i++ {
			month := time.Date(after.Year(), after.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, i, 0)
			at := time.Date(month.Year(), month.Month(), clampDay(day, month),
				hour, minute, 0, 0, loc)
			if at.After(after) {
				return &at, nil
			}
		}
		return nil, nil
	}

	return nil, fmt.Errorf("unknown frequency %q", r.Frequency)
}

func rruleNext(opt rrule.ROption, hour, minute int, after time.Time) (*time.Time, error) {
	opt.Dtstart = after.AddDate(0, 0, -8) // cover a full week of candidates
	opt.Byhour = []int{hour}
	opt.Byminute = []int{minute}
	opt.Bysecond = []int{0}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence rule: %w", err)
	}
	next := rule.After(after, false)
	if next.IsZero() {
		return nil, nil
	}
	next = next.In(after.Location())
	return &next, nil
}
