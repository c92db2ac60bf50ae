package scheduler

import "time"

// dedupWindow is the minimum gap between two sends of the same reminder.
// The tick interval and the minute-granularity time match can otherwise let
// adjacent ticks land in the same wall-clock minute and fire twice.
const dedupWindow = 60 * time.Second

// ShouldSuppress reports whether a send must be suppressed because the
// reminder already fired within the dedup window. A nil lastSentAt never
// suppresses.
func ShouldSuppress(lastSentAt *time.Time, now time.Time) bool {
	if lastSentAt == nil {
		return false
	}
	return now.Sub(*lastSentAt) < dedupWindow
}
