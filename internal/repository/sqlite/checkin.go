package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/essence-compass/internal/model"
	"github.com/sakif/essence-compass/internal/repository"
)

// compile-time check that *DB implements repository.CheckInRepository
var _ repository.CheckInRepository = (*DB)(nil)

// CreateCheckIn appends a new check-in row owned by checkIn.UserID.
// The ID is generated here; Timestamp defaults to now if the caller left it
// zero. Each call is a single INSERT — SQLite commits it atomically, so the
// row is durable before the HTTP response goes out.
//
// A zero UserID would violate the NOT NULL foreign key; the service layer
// never passes one, and the constraint catches it if anything else does.
func (db *DB) CreateCheckIn(ctx context.Context, checkIn *model.CheckIn) error {
	checkIn.ID = xid.New().String()
	if checkIn.Timestamp.IsZero() {
		checkIn.Timestamp = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO check_ins (id, timestamp, mood_score, energy_score, user_id)
		 VALUES (?, ?, ?, ?, ?)`,
		checkIn.ID,
		checkIn.Timestamp,
		checkIn.MoodScore,
		checkIn.EnergyScore,
		checkIn.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting check-in for user %s: %w", checkIn.UserID, err)
	}

	return nil
}

// ListCheckInsByUser returns the user's check-ins, newest first.
//
// The query is scoped by user_id — ownership filtering happens in SQL, not
// in Go, so another user's rows are never even read. This is the explicit
// find_checkins_by_user access pattern: one query per need, no lazy
// relationship loading.
func (db *DB) ListCheckInsByUser(ctx context.Context, userID string, limit int) ([]model.CheckIn, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, timestamp, mood_score, energy_score, user_id
		 FROM check_ins
		 WHERE user_id = ?
		 ORDER BY timestamp DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing check-ins for user %s: %w", userID, err)
	}
	// rows MUST be closed, or the connection leaks back into the pool busy.
	defer rows.Close()

	// Initialize to an empty slice (not nil) so the JSON response is []
	// rather than null when the user has no check-ins yet.
	checkIns := []model.CheckIn{}
	for rows.Next() {
		var c model.CheckIn
		if err := rows.Scan(&c.ID, &c.Timestamp, &c.MoodScore, &c.EnergyScore, &c.UserID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning check-in row: %w", err)
		}
		checkIns = append(checkIns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating check-in rows: %w", err)
	}

	return checkIns, nil
}
