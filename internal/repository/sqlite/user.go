package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/essence-compass/internal/apperror"
	"github.com/sakif/essence-compass/internal/model"
	"github.com/sakif/essence-compass/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user row. The caller provides Username, Email,
// and PasswordHash; this method fills in ID, CreatedAt, and UpdatedAt.
//
// CONFLICT HANDLING:
// We do NOT pre-check with a SELECT — that would be a race (two concurrent
// registrations could both pass the check and then one INSERT would still
// fail). Instead we let the UNIQUE constraints on username and email do
// their job and translate the constraint failure into apperror.Conflict,
// naming the offending field so the client knows what to change.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if column, ok := uniqueViolationColumn(err); ok {
			switch column {
			case "email":
				return apperror.Conflict("email", "email is already registered")
			case "username":
				return apperror.Conflict("username", "username is already taken")
			}
			return apperror.Conflict(column, fmt.Sprintf("%s is already in use", column))
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID — which the
// auth service treats as a dead identity (the token outlived the row).
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at
		 FROM users WHERE id = ?`, id)
}

// GetUserByEmail retrieves a user by email — the login lookup.
// Returns apperror.ErrNotFound if the email is not registered.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at
		 FROM users WHERE email = ?`, email)
}

// getUser runs a single-row user query and scans the result.
// Shared by GetUserByID and GetUserByEmail — the column list must stay in
// sync with the Scan targets below.
func (db *DB) getUser(ctx context.Context, query, arg string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", arg)
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", arg, err)
	}

	return &u, nil
}
