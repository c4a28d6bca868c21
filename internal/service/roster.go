package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mergington/activities/internal/apperror"
	"github.com/mergington/activities/internal/model"
	"github.com/mergington/activities/internal/repository"
)

// RosterService handles the activity roster: listing activities and the
// signup/unregister membership toggle.
//
// The set of activities is fixed at startup (Seed); only participant lists
// mutate afterwards. Membership rules the repository enforces atomically:
// no duplicate signups, capacity respected, append order preserved.
type RosterService struct {
	activities repository.ActivityRepository
	logger     *slog.Logger
}

// NewRosterService creates a RosterService.
func NewRosterService(activities repository.ActivityRepository, logger *slog.Logger) *RosterService {
	return &RosterService{
		activities: activities,
		logger:     logger,
	}
}

// Seed installs the initial roster. Called once at startup by the
// composition root.
func (s *RosterService) Seed(ctx context.Context, roster model.Roster) error {
	if err := s.activities.Seed(ctx, roster); err != nil {
		return fmt.Errorf("seeding roster: %w", err)
	}
	s.logger.Info("roster seeded", slog.Int("activities", len(roster)))
	return nil
}

// List returns the full roster in seed order.
func (s *RosterService) List(ctx context.Context) (model.Roster, error) {
	roster, err := s.activities.List(ctx)
	if err != nil {
		s.logger.Error("failed to list activities", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	return roster, nil
}

// SignUp adds email to the end of the activity's participant list.
// Fails with ErrNotFound for an unknown activity and ErrConflict for a
// duplicate signup or a full activity.
func (s *RosterService) SignUp(ctx context.Context, activity, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}

	if err := s.activities.AddParticipant(ctx, activity, email); err != nil {
		return err
	}

	s.logger.Info("participant signed up",
		slog.String("activity", activity),
		slog.String("email", email),
	)

	return nil
}

// Unregister removes email from the activity's participant list.
// Fails with ErrNotFound for an unknown activity and ErrConflict if the
// email is not signed up.
func (s *RosterService) Unregister(ctx context.Context, activity, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}

	if err := s.activities.RemoveParticipant(ctx, activity, email); err != nil {
		return err
	}

	s.logger.Info("participant unregistered",
		slog.String("activity", activity),
		slog.String("email", email),
	)

	return nil
}
