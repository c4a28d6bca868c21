package repository

import (
	"context"

	"github.com/mergington/activities/internal/model"
)

// UserRepository is the account store: two disjoint collections of user
// records, each keyed by email within its collection.
type UserRepository interface {
	// Create inserts a new user. Returns apperror.ErrConflict if the email
	// already exists in the user's collection.
	Create(ctx context.Context, user *model.User) error

	// Get returns the user with the given email in the given collection.
	// Returns apperror.ErrNotFound if absent.
	Get(ctx context.Context, collection model.Collection, email string) (*model.User, error)

	// Update overwrites the mutable fields (profile, password) of an
	// existing user. Returns apperror.ErrNotFound if absent.
	Update(ctx context.Context, user *model.User) error
}

// ActivityRepository is the activity roster: a fixed set of activities and
// their ordered participant lists.
type ActivityRepository interface {
	// Seed installs the initial roster. Idempotent: activities already
	// present are left untouched, so a restart never duplicates seed rows.
	Seed(ctx context.Context, roster model.Roster) error

	// List returns all activities in seed order, each with its participants
	// in signup order.
	List(ctx context.Context) (model.Roster, error)

	// AddParticipant appends email to the activity's participant list.
	// Returns apperror.ErrNotFound for an unknown activity and
	// apperror.ErrConflict if the email is already signed up or the
	// activity is at capacity.
	AddParticipant(ctx context.Context, activity, email string) error

	// RemoveParticipant removes email from the activity's participant list.
	// Returns apperror.ErrNotFound for an unknown activity and
	// apperror.ErrConflict if the email is not signed up.
	RemoveParticipant(ctx context.Context, activity, email string) error
}
