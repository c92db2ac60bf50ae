package models

import "time"

type User struct {
	UserID    int64     `json:"user_id"` // Telegram chat ID
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
