package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/mergington/activities/internal/apperror"
	"github.com/mergington/activities/internal/model"
	"github.com/mergington/activities/internal/repository"
)

// Compile-time check that *DB implements repository.UserRepository.
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user record.
//
// Duplicate detection rides on the UNIQUE(collection, email) constraint
// rather than a separate existence check; insert-then-translate is one
// round trip and has no check-then-act gap. xid generates the surrogate
// primary key; the caller's struct is updated in place with the generated
// ID and timestamps.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, collection, email, name, password, profile_name, profile_bio, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Collection.String(),
		user.Email,
		user.Name,
		user.Password,
		user.Profile.Name,
		user.Profile.Bio,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("User already exists")
		}
		return fmt.Errorf("sqlite: inserting user %s/%s: %w", user.Collection, user.Email, err)
	}

	return nil
}

// Get retrieves a user by collection and email.
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) Get(ctx context.Context, collection model.Collection, email string) (*model.User, error) {
	var u model.User
	var col string

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, collection, email, name, password, profile_name, profile_bio, created_at, updated_at
		 FROM users WHERE collection = ? AND email = ?`,
		collection.String(), email,
	).Scan(
		&u.ID,
		&col,
		&u.Email,
		&u.Name,
		&u.Password,
		&u.Profile.Name,
		&u.Profile.Bio,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("sqlite: getting user %s/%s: %w", collection, email, err)
	}
	u.Collection = model.Collection(col)

	return &u, nil
}

// Update overwrites the mutable fields of an existing user: the profile and
// the password. Identity fields (collection, email) never change.
func (db *DB) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET password = ?, profile_name = ?, profile_bio = ?, updated_at = ?
		 WHERE collection = ? AND email = ?`,
		user.Password,
		user.Profile.Name,
		user.Profile.Bio,
		user.UpdatedAt,
		user.Collection.String(),
		user.Email,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s/%s: %w", user.Collection, user.Email, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s/%s: %w", user.Collection, user.Email, err)
	}
	if n == 0 {
		return apperror.NotFound("User not found")
	}

	return nil
}
