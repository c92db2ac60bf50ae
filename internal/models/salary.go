package models

import "time"

type SalaryKind string

const (
	SalaryKindShift SalaryKind = "shift"
	SalaryKindBonus SalaryKind = "bonus"
)

type SalaryRecord struct {
	ID         int        `json:"id"`
	UserID     int64      `json:"user_id"`
	RecordDate time.Time  `json:"record_date"` // date only
	Kind       SalaryKind `json:"kind"`
	StartTime  string     `json:"start_time"` // HH:MM, shift only
	EndTime    string     `json:"end_time"`   // HH:MM, shift only
	Hours      float64    `json:"hours"`
	Rate       float64    `json:"rate"`
	Amount     int        `json:"amount"`
	Note       string     `json:"note"`
	CreatedAt  time.Time  `json:"created_at"`
}
