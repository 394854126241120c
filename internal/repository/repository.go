// Package repository defines the storage interfaces used by the service layer.
//
// The service layer depends on these interfaces, never on the concrete
// SQLite implementation — tests substitute in-memory fakes, and swapping
// the storage engine means touching only cmd/server/main.go.
//
// Method names carry the entity (CreateUser, not Create) because a single
// *sqlite.DB implements all three interfaces on one connection pool.
package repository

import (
	"context"

	"github.com/sakif/essence-compass/internal/model"
)

// UserRepository stores user accounts.
//
// CreateUser returns apperror.ErrConflict (wrapped) if the username or email
// is already taken — uniqueness is enforced by the database, not by a racy
// check-then-insert in application code.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// CheckInRepository stores mood/energy check-ins. Check-ins are append-only:
// there are no update or delete operations in the whole API, so none exist
// here either.
type CheckInRepository interface {
	CreateCheckIn(ctx context.Context, checkIn *model.CheckIn) error
	ListCheckInsByUser(ctx context.Context, userID string, limit int) ([]model.CheckIn, error)
}

// JournalRepository stores free-text journal entries, append-only like
// check-ins.
type JournalRepository interface {
	CreateJournalEntry(ctx context.Context, entry *model.JournalEntry) error
	ListJournalEntriesByUser(ctx context.Context, userID string, limit int) ([]model.JournalEntry, error)
}
