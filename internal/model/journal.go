package model

import "time"

// JournalEntry is a timestamped free-text note owned by a user.
// Like CheckIn it is append-only: entries are written once and listed,
// never edited.
type JournalEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
}
