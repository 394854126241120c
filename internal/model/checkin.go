package model

import "time"

// CheckIn is a single timestamped mood/energy self-report.
//
// The `json:"..."` tags tell Go's encoding/json package how to serialize
// this struct. We use snake_case on the wire (mood_score, energy_score)
// because that's the field naming the frontend submits.
//
// A check-in is immutable once written — there are no update or delete
// operations anywhere in the API. The Timestamp defaults to the moment of
// creation (set by the repository) and records when the user felt this way.
type CheckIn struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	MoodScore   int       `json:"mood_score"`
	EnergyScore int       `json:"energy_score"`
	UserID      string    `json:"user_id"` // owning user — NOT NULL foreign key
}
