// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// AuthService sits between the HTTP handlers and the repository/auth
// utilities:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ PasswordService (bcrypt)
//	                   ↘ TokenService (JWT sessions)
//
// KEY RESPONSIBILITIES:
//   - Register: validate input, hash the password, create the account
//   - Login: verify credentials, issue the session token
//   - Encapsulate all auth rules in one place, away from HTTP concerns
//   - Be easily testable with fake dependencies
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/essence-compass/internal/apperror"
	"github.com/sakif/essence-compass/internal/auth"
	"github.com/sakif/essence-compass/internal/model"
	"github.com/sakif/essence-compass/internal/repository"
)

const MaxUsernameLength = 80

// invalidCredentials is the single message for every login failure.
// Unknown email and wrong password must be indistinguishable to the caller,
// otherwise the login endpoint doubles as an email-enumeration oracle.
const invalidCredentials = "invalid email or password"

// AuthService handles registration, login, and caller resolution.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository  → read/write user records
//   - tokens     *auth.TokenService         → generate/validate session JWTs
//   - passwords  *auth.PasswordService      → bcrypt hashing
//   - logger     *slog.Logger               → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult is returned by Login. It bundles the user record and the
// issued JWT together so the HTTP handler can set the session cookie and
// build the response in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account from an email, username, and plaintext
// password.
//
// VALIDATION:
// All three fields are required (missing → ErrValidation → 400). The email
// must at least look like an address. Uniqueness of email and username is
// NOT checked here — the repository's UNIQUE constraints enforce it and
// surface ErrConflict (→ 409), which avoids the check-then-insert race.
//
// The plaintext password exists only on this call stack: it is hashed
// immediately and never stored, logged, or echoed back.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "email must be a valid address")
	}
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		// Hash only fails on oversized input — report it as a validation
		// problem, not a server error.
		return nil, apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// Conflict errors pass through with their field intact; anything
		// else is a storage failure.
		return nil, fmt.Errorf("service/auth: registering user %q: %w", username, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies the email/password pair and, on success, issues a session
// token. On any failure — unknown email, wrong password — it returns
// ErrUnauthorized with the same message (see invalidCredentials).
//
// Note the bcrypt verify still runs only when the user exists; the lookup
// itself is fast either way, and the error the caller sees is identical.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)

	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		return nil, fmt.Errorf("service/auth: looking up %q: %w", email, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Info("login rejected",
			slog.String("userID", user.ID),
		)
		return nil, apperror.Unauthorized(invalidCredentials)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}

// CurrentUser returns the user record for an already-authenticated caller.
//
// Used by the /api/me handler after the middleware validates the JWT and
// extracts the userID from the token's Subject claim. A valid token whose
// user row has vanished resolves to ErrNotFound.
func (s *AuthService) CurrentUser(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}

	return user, nil
}
