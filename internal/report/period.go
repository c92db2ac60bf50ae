package report

import "time"

// LastCompletedMonth returns the most recently completed billing period as a
// closed date range: the first through the last day of the month preceding
// today. Report periods are always calendar months; the cycle-day-anchored
// range used by expense summaries is a separate policy (see CycleRange).
func LastCompletedMonth(today time.Time) (start, end time.Time) {
	loc := today.Location()
	firstOfThisMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
	end = firstOfThisMonth.AddDate(0, 0, -1)
	start = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, loc)
	return start, end
}

// CycleRange returns the billing cycle containing today, anchored to the
// user's configured cycle start day: [start day, day before the next cycle's
// start], both inclusive. A start day past the end of a short month is
// clamped to that month's last day.
func CycleRange(today time.Time, cycleStartDay int) (start, end time.Time) {
	if cycleStartDay < 1 {
		cycleStartDay = 1
	}
	loc := today.Location()

	anchor := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
	if today.Day() < clampToMonth(cycleStartDay, anchor) {
		anchor = anchor.AddDate(0, -1, 0)
	}

	start = time.Date(anchor.Year(), anchor.Month(), clampToMonth(cycleStartDay, anchor), 0, 0, 0, 0, loc)
	nextAnchor := anchor.AddDate(0, 1, 0)
	end = time.Date(nextAnchor.Year(), nextAnchor.Month(), clampToMonth(cycleStartDay, nextAnchor), 0, 0, 0, 0, loc).
		AddDate(0, 0, -1)
	return start, end
}

func clampToMonth(day int, month time.Time) int {
	last := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location()).
		AddDate(0, 1, -1).Day()
	if day > last {
		return last
	}
	return day
}
