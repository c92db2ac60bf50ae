package models

import (
	"fmt"
	"time"
)

// Weekdays is the set of weekdays a weekly reminder fires on, using Go's
// numbering (0 = Sunday).
type Weekdays []time.Weekday

// ParseWeekdays converts stored ints into Weekdays. Out-of-range values are
// dropped and reported through the error; the valid subset is still returned.
func ParseWeekdays(values []int32) (Weekdays, error) {
	var (
		out     Weekdays
		invalid []int32
	)
	for _, v := range values {
		if v < 0 || v > 6 {
			invalid = append(invalid, v)
			continue
		}
		d := time.Weekday(v)
		if !out.Contains(d) {
			out = append(out, d)
		}
	}
	if len(invalid) > 0 {
		return out, fmt.Errorf("weekdays out of range %v", invalid)
	}
	return out, nil
}

func (ws Weekdays) Contains(d time.Weekday) bool {
	for _, x := range ws {
		if x == d {
			return true
		}
	}
	return false
}

func (ws Weekdays) Ints() []int32 {
	out := make([]int32, len(ws))
	for i, d := range ws {
		out[i] = int32(d)
	}
	return out
}
