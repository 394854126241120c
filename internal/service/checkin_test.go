package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/essence-compass/internal/apperror"
	"github.com/sakif/essence-compass/internal/model"
)

// fakeCheckInRepo is an in-memory repository.CheckInRepository.
type fakeCheckInRepo struct {
	checkIns  []model.CheckIn
	createErr error
}

func (f *fakeCheckInRepo) CreateCheckIn(ctx context.Context, c *model.CheckIn) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = xid.New().String()
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}
	f.checkIns = append(f.checkIns, *c)
	return nil
}

func (f *fakeCheckInRepo) ListCheckInsByUser(ctx context.Context, userID string, limit int) ([]model.CheckIn, error) {
	out := []model.CheckIn{}
	for _, c := range f.checkIns {
		if c.UserID == userID && len(out) < limit {
			out = append(out, c)
		}
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// =========================================================================
// Create TESTS
// =========================================================================

func TestCheckInCreate(t *testing.T) {
	repo := &fakeCheckInRepo{}
	svc := NewCheckInService(repo, testLogger())

	checkIn, err := svc.Create(context.Background(), "user-1", 7, 5)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if checkIn.MoodScore != 7 || checkIn.EnergyScore != 5 {
		t.Errorf("scores = (%d, %d), want (7, 5)", checkIn.MoodScore, checkIn.EnergyScore)
	}
	if checkIn.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", checkIn.UserID, "user-1")
	}
	if len(repo.checkIns) != 1 {
		t.Errorf("repo has %d check-ins, want 1", len(repo.checkIns))
	}
}

func TestCheckInCreate_ScoreValidation(t *testing.T) {
	repo := &fakeCheckInRepo{}
	svc := NewCheckInService(repo, testLogger())

	cases := []struct {
		name         string
		mood, energy int
	}{
		{"missing mood (zero value)", 0, 5},
		{"missing energy (zero value)", 5, 0},
		{"both missing", 0, 0},
		{"mood too high", 11, 5},
		{"energy too high", 5, 11},
		{"negative mood", -3, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user-1", tc.mood, tc.energy)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Create(%d, %d) error = %v, want ErrValidation", tc.mood, tc.energy, err)
			}
		})
	}

	// Validation failures must not write anything
	if len(repo.checkIns) != 0 {
		t.Errorf("repo has %d check-ins after rejected creates, want 0", len(repo.checkIns))
	}
}

func TestCheckInCreate_RepoError(t *testing.T) {
	repo := &fakeCheckInRepo{createErr: errors.New("disk full")}
	svc := NewCheckInService(repo, testLogger())

	_, err := svc.Create(context.Background(), "user-1", 7, 5)
	if err == nil {
		t.Fatal("Create() should propagate repository errors")
	}
	// A storage failure is not a validation problem — the handler must
	// map it to 500, not 400.
	if errors.Is(err, apperror.ErrValidation) {
		t.Error("repository error should not be ErrValidation")
	}
}

// =========================================================================
// List TESTS
// =========================================================================

func TestCheckInList_ClampsLimit(t *testing.T) {
	repo := &fakeCheckInRepo{}
	svc := NewCheckInService(repo, testLogger())

	for i := 0; i < 30; i++ {
		if _, err := svc.Create(context.Background(), "user-1", 5, 5); err != nil {
			t.Fatalf("Create() #%d: %v", i, err)
		}
	}

	// limit 0 → default
	got, err := svc.List(context.Background(), "user-1", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != DefaultListLimit {
		t.Errorf("List(limit=0) returned %d, want default %d", len(got), DefaultListLimit)
	}

	// absurd limit → clamped to max
	got, err = svc.List(context.Background(), "user-1", 1_000_000)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) > MaxListLimit {
		t.Errorf("List(limit=1e6) returned %d, want at most %d", len(got), MaxListLimit)
	}
}
