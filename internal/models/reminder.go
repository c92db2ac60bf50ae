package models

import "time"

// Frequency describes how often a reminder fires.
type Frequency string

const (
	FrequencyOnce    Frequency = "once"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyOnce, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

type Reminder struct {
	ID          int        `json:"reminder_id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Frequency   Frequency  `json:"frequency"`
	RemindTime  string     `json:"remind_time"` // HH:MM, operating time zone
	RemindDate  *time.Time `json:"remind_date"` // required for once; day/weekday reference otherwise
	Weekdays    Weekdays   `json:"weekdays"` // weekly only
	// WeekdaysMalformed records that a persisted weekday payload held no
	// valid values. Distinguishes "set never provided" (legacy rows, which
	// fall back to remind_date's weekday) from "set present but garbage",
	// which never matches.
	WeekdaysMalformed bool       `json:"-"`
	Channels          Channels   `json:"notify_channels"`
	Active            bool       `json:"is_active"`
	LastSentAt        *time.Time `json:"last_sent_at"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ClockTime parses RemindTime. ok is false for malformed values, which are
// treated as "never due" rather than an error.
func (r *Reminder) ClockTime() (hour, minute int, ok bool) {
	t, err := time.Parse("15:04", r.RemindTime)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}
