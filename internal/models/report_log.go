package models

import "time"

// ReportKind identifies which periodic report a send-log entry covers.
type ReportKind string

const (
	ReportSalary  ReportKind = "salary"
	ReportExpense ReportKind = "expense"
)

// ReportLog is the durable "already sent" marker for one periodic report.
// Rows are write-once: (user, period, kind) is unique and never updated.
type ReportLog struct {
	ID          int        `json:"report_log_id"`
	UserID      int64      `json:"user_id"`
	PeriodStart time.Time  `json:"period_start"` // date only, inclusive
	PeriodEnd   time.Time  `json:"period_end"`   // date only, inclusive
	Kind        ReportKind `json:"report_kind"`
	SentAt      time.Time  `json:"sent_at"`
}
