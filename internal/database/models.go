package database

import "time"

// User represents a registered bot user. ChatID is the Telegram chat
// identifier used to reach the user; it is unique per user.
type User struct {
	ID        int64     `db:"id"`
	ChatID    int64     `db:"chat_id"`
	CreatedAt time.Time `db:"created_at"`
}
