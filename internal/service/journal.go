package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/essence-compass/internal/apperror"
	"github.com/sakif/essence-compass/internal/model"
	"github.com/sakif/essence-compass/internal/repository"
)

// MaxJournalContentLength caps a single entry at ~50KB of text.
const MaxJournalContentLength = 50000

// JournalService handles business logic for journal entries.
// Same ownership discipline as CheckInService: userID comes from the
// session, never from the request body.
type JournalService struct {
	repo   repository.JournalRepository
	logger *slog.Logger
}

// NewJournalService creates a new JournalService.
func NewJournalService(repo repository.JournalRepository, logger *slog.Logger) *JournalService {
	return &JournalService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and persists a new journal entry owned by userID.
// Content is required after trimming — an entry of pure whitespace is
// rejected, not silently stored.
func (s *JournalService) Create(ctx context.Context, userID, content string) (*model.JournalEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("service/journal: userID must not be empty")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "content is required")
	}
	if len(content) > MaxJournalContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("content must be %d characters or less", MaxJournalContentLength))
	}

	entry := &model.JournalEntry{
		Content: content,
		UserID:  userID,
	}

	if err := s.repo.CreateJournalEntry(ctx, entry); err != nil {
		s.logger.Error("failed to create journal entry",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating journal entry: %w", err)
	}

	s.logger.Info("journal entry recorded",
		slog.String("id", entry.ID),
		slog.String("userID", userID),
	)

	return entry, nil
}

// List returns the caller's journal entries, newest first, limit clamped
// like CheckInService.List.
func (s *JournalService) List(ctx context.Context, userID string, limit int) ([]model.JournalEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("service/journal: userID must not be empty")
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	entries, err := s.repo.ListJournalEntriesByUser(ctx, userID, limit)
	if err != nil {
		s.logger.Error("failed to list journal entries",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing journal entries: %w", err)
	}

	return entries, nil
}
