package models

import "time"

type ExpenseRecord struct {
	ID        int       `json:"id"`
	UserID    int64     `json:"user_id"`
	SpentAt   time.Time `json:"spent_at"`
	Category  string    `json:"category"`
	Note      string    `json:"note"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
