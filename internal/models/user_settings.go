package models

import "time"

// UserSettings holds per-user ledger and notification preferences.
type UserSettings struct {
	UserID               int64     `json:"user_id"`
	HourlyRate           float64   `json:"hourly_rate"`
	MonthlyBudget        float64   `json:"monthly_budget"`
	BudgetAlertThreshold int       `json:"budget_alert_threshold"` // percent of budget
	BillingCycleStartDay int       `json:"billing_cycle_start_day"`
	MonthlyReportDay     int       `json:"monthly_report_day"` // 1-28
	Channels             Channels  `json:"notify_channels"`    // global default for reminders and reports
	Email                string    `json:"email"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// NewDefaultUserSettings creates settings with default values.
func NewDefaultUserSettings(userID int64) *UserSettings {
	return &UserSettings{
		UserID:               userID,
		HourlyRate:           183,
		MonthlyBudget:        10000,
		BudgetAlertThreshold: 80,
		BillingCycleStartDay: 10,
		MonthlyReportDay:     5,
		Channels:             Channels{ChannelPush},
		UpdatedAt:            time.Now(),
	}
}
