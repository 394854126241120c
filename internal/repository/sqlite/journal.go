package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/essence-compass/internal/model"
	"github.com/sakif/essence-compass/internal/repository"
)

// compile-time check that *DB implements repository.JournalRepository
var _ repository.JournalRepository = (*DB)(nil)

// CreateJournalEntry appends a new journal entry owned by entry.UserID.
// Same contract as CreateCheckIn: ID generated here, Timestamp defaulted,
// single atomic INSERT.
func (db *DB) CreateJournalEntry(ctx context.Context, entry *model.JournalEntry) error {
	entry.ID = xid.New().String()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO journal_entries (id, timestamp, content, user_id)
		 VALUES (?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp,
		entry.Content,
		entry.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting journal entry for user %s: %w", entry.UserID, err)
	}

	return nil
}

// ListJournalEntriesByUser returns the user's journal entries, newest first,
// scoped by user_id in SQL like ListCheckInsByUser.
func (db *DB) ListJournalEntriesByUser(ctx context.Context, userID string, limit int) ([]model.JournalEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, timestamp, content, user_id
		 FROM journal_entries
		 WHERE user_id = ?
		 ORDER BY timestamp DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing journal entries for user %s: %w", userID, err)
	}
	defer rows.Close()

	entries := []model.JournalEntry{}
	for rows.Next() {
		var e model.JournalEntry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Content, &e.UserID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning journal entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating journal entry rows: %w", err)
	}

	return entries, nil
}
