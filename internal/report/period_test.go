package report

import (
	"testing"
	"time"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestLastCompletedMonth(t *testing.T) {
	cases := []struct {
		today      time.Time
		start, end time.Time
	}{
		{d(2024, time.February, 11), d(2024, time.January, 1), d(2024, time.January, 31)},
		{d(2024, time.January, 5), d(2023, time.December, 1), d(2023, time.December, 31)}, // year rollover
		{d(2024, time.March, 1), d(2024, time.February, 1), d(2024, time.February, 29)},   // leap February
		{d(2023, time.March, 31), d(2023, time.February, 1), d(2023, time.February, 28)},
		{d(2024, time.December, 25), d(2024, time.November, 1), d(2024, time.November, 30)},
	}
	for _, c := range cases {
		start, end := LastCompletedMonth(c.today)
		if !start.Equal(c.start) || !end.Equal(c.end) {
			t.Errorf("LastCompletedMonth(%s) = (%s, %s), want (%s, %s)",
				c.today.Format("2006-01-02"),
				start.Format("2006-01-02"), end.Format("2006-01-02"),
				c.start.Format("2006-01-02"), c.end.Format("2006-01-02"))
		}
	}
}

func TestCycleRange(t *testing.T) {
	cases := []struct {
		today      time.Time
		cycleDay   int
		start, end time.Time
	}{
		// On or after the cycle day: cycle starts this month.
		{d(2024, time.March, 15), 10, d(2024, time.March, 10), d(2024, time.April, 9)},
		{d(2024, time.March, 10), 10, d(2024, time.March, 10), d(2024, time.April, 9)},
		// Before the cycle day: cycle started last month.
		{d(2024, time.March, 5), 10, d(2024, time.February, 10), d(2024, time.March, 9)},
		// Year boundary.
		{d(2024, time.January, 3), 10, d(2023, time.December, 10), d(2024, time.January, 9)},
		// Cycle day 1 degenerates to calendar months.
		{d(2024, time.March, 1), 1, d(2024, time.March, 1), d(2024, time.March, 31)},
		// Cycle day 31 clamps in short months.
		{d(2024, time.April, 30), 31, d(2024, time.April, 30), d(2024, time.May, 30)},
		{d(2024, time.February, 15), 31, d(2024, time.January, 31), d(2024, time.February, 28)},
	}
	for _, c := range cases {
		start, end := CycleRange(c.today, c.cycleDay)
		if !start.Equal(c.start) || !end.Equal(c.end) {
			t.Errorf("CycleRange(%s, %d) = (%s, %s), want (%s, %s)",
				c.today.Format("2006-01-02"), c.cycleDay,
				start.Format("2006-01-02"), end.Format("2006-01-02"),
				c.start.Format("2006-01-02"), c.end.Format("2006-01-02"))
		}
	}
}
