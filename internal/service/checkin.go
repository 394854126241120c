package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/essence-compass/internal/apperror"
	"github.com/sakif/essence-compass/internal/model"
	"github.com/sakif/essence-compass/internal/repository"
)

// Score and pagination bounds.
// Scores run 1–10: zero is the JSON "field missing" zero value, so requiring
// >= 1 doubles as the presence check — a request without mood_score decodes
// to 0 and fails validation.
const (
	MinScore         = 1
	MaxScore         = 10
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// CheckInService handles business logic for mood/energy check-ins.
//
// The userID parameter on every method is the AUTHENTICATED caller's ID,
// resolved by the middleware from the session token — it is never taken
// from the request body, so a client cannot submit check-ins on someone
// else's behalf.
type CheckInService struct {
	repo   repository.CheckInRepository
	logger *slog.Logger
}

// NewCheckInService creates a new CheckInService.
func NewCheckInService(repo repository.CheckInRepository, logger *slog.Logger) *CheckInService {
	return &CheckInService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and persists a new check-in owned by userID.
//
// The service accepts primitives (not *http.Request) so it stays
// HTTP-agnostic; the handler does JSON parsing, this method enforces the
// business rules. Returns ErrValidation for out-of-range scores.
func (s *CheckInService) Create(ctx context.Context, userID string, mood, energy int) (*model.CheckIn, error) {
	if userID == "" {
		return nil, fmt.Errorf("service/checkin: userID must not be empty")
	}
	if mood < MinScore || mood > MaxScore {
		return nil, apperror.ValidationFailed("mood_score",
			fmt.Sprintf("mood_score is required and must be between %d and %d", MinScore, MaxScore))
	}
	if energy < MinScore || energy > MaxScore {
		return nil, apperror.ValidationFailed("energy_score",
			fmt.Sprintf("energy_score is required and must be between %d and %d", MinScore, MaxScore))
	}

	checkIn := &model.CheckIn{
		MoodScore:   mood,
		EnergyScore: energy,
		UserID:      userID,
	}

	// The repo fills in ID and Timestamp and commits before returning,
	// so once this call succeeds the row is durable.
	if err := s.repo.CreateCheckIn(ctx, checkIn); err != nil {
		s.logger.Error("failed to create check-in",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating check-in: %w", err)
	}

	s.logger.Info("check-in recorded",
		slog.String("id", checkIn.ID),
		slog.String("userID", userID),
		slog.Int("mood", mood),
		slog.Int("energy", energy),
	)

	return checkIn, nil
}

// List returns the caller's check-ins, newest first, with the limit clamped
// to a sane range so a client can't request the entire table at once.
func (s *CheckInService) List(ctx context.Context, userID string, limit int) ([]model.CheckIn, error) {
	if userID == "" {
		return nil, fmt.Errorf("service/checkin: userID must not be empty")
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	checkIns, err := s.repo.ListCheckInsByUser(ctx, userID, limit)
	if err != nil {
		s.logger.Error("failed to list check-ins",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing check-ins: %w", err)
	}

	return checkIns, nil
}
