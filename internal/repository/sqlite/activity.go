package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mergington/activities/internal/apperror"
	"github.com/mergington/activities/internal/model"
	"github.com/mergington/activities/internal/repository"
)

// Compile-time check that *DB implements repository.ActivityRepository.
var _ repository.ActivityRepository = (*DB)(nil)

// Seed installs the initial roster. INSERT OR IGNORE makes it idempotent:
// activities and memberships already present are left alone, so seeding an
// already-seeded database is a no-op rather than an error.
func (db *DB) Seed(ctx context.Context, roster model.Roster) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	for pos, a := range roster {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO activities (name, description, schedule, max_participants, position)
			 VALUES (?, ?, ?, ?, ?)`,
			a.Name, a.Description, a.Schedule, a.MaxParticipants, pos,
		); err != nil {
			return fmt.Errorf("sqlite: seeding activity %q: %w", a.Name, err)
		}
		for _, email := range a.Participants {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO participants (activity, email) VALUES (?, ?)`,
				a.Name, email,
			); err != nil {
				return fmt.Errorf("sqlite: seeding participant %q of %q: %w", email, a.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing seed: %w", err)
	}
	return nil
}

// List returns the full roster: activities in seed order, participants in
// signup order. Both orderings are part of the API contract; the roster
// serializes as an ordered JSON object and the participant lists are
// display order.
func (db *DB) List(ctx context.Context) (model.Roster, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT name, description, schedule, max_participants
		 FROM activities ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing activities: %w", err)
	}
	defer rows.Close()

	var roster model.Roster
	index := make(map[string]int)
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.Name, &a.Description, &a.Schedule, &a.MaxParticipants); err != nil {
			return nil, fmt.Errorf("sqlite: scanning activity: %w", err)
		}
		// Non-nil so an empty list serializes as [] rather than null.
		a.Participants = []string{}
		index[a.Name] = len(roster)
		roster = append(roster, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: listing activities: %w", err)
	}

	prows, err := db.conn.QueryContext(ctx,
		`SELECT activity, email FROM participants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing participants: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var activity, email string
		if err := prows.Scan(&activity, &email); err != nil {
			return nil, fmt.Errorf("sqlite: scanning participant: %w", err)
		}
		if i, ok := index[activity]; ok {
			roster[i].Participants = append(roster[i].Participants, email)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: listing participants: %w", err)
	}

	return roster, nil
}

// AddParticipant signs email up for an activity.
//
// The whole check-then-append sequence runs in one transaction so a failure
// at any step leaves no partial state: unknown activity → NotFound, already
// a member → Conflict, at capacity → Conflict, otherwise the email is
// appended (AUTOINCREMENT id preserves signup order).
func (db *DB) AddParticipant(ctx context.Context, activity, email string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning signup transaction: %w", err)
	}
	defer tx.Rollback()

	var max int
	err = tx.QueryRowContext(ctx,
		`SELECT max_participants FROM activities WHERE name = ?`, activity,
	).Scan(&max)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("Activity not found")
		}
		return fmt.Errorf("sqlite: getting activity %q: %w", activity, err)
	}

	// Duplicate check comes before the capacity check: signing up twice for
	// a full activity is reported as a duplicate, not as "full".
	var member int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE activity = ? AND email = ?`,
		activity, email,
	).Scan(&member)
	if err != nil {
		return fmt.Errorf("sqlite: checking membership of %q in %q: %w", email, activity, err)
	}
	if member > 0 {
		return apperror.Conflict("Student is already signed up")
	}

	var enrolled int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE activity = ?`, activity,
	).Scan(&enrolled)
	if err != nil {
		return fmt.Errorf("sqlite: counting participants of %q: %w", activity, err)
	}
	if enrolled >= max {
		return apperror.Conflict("Activity is full")
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO participants (activity, email) VALUES (?, ?)`,
		activity, email,
	); err != nil {
		if isUniqueViolation(err) {
			// The pre-check above makes this unreachable in practice; the
			// constraint is the backstop.
			return apperror.Conflict("Student is already signed up")
		}
		return fmt.Errorf("sqlite: adding %q to %q: %w", email, activity, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing signup: %w", err)
	}
	return nil
}

// RemoveParticipant removes email from an activity. The existence check and
// the delete run in one transaction, mirroring AddParticipant.
func (db *DB) RemoveParticipant(ctx context.Context, activity, email string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning unregister transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM activities WHERE name = ?`, activity,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("Activity not found")
		}
		return fmt.Errorf("sqlite: getting activity %q: %w", activity, err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM participants WHERE activity = ? AND email = ?`,
		activity, email,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing %q from %q: %w", email, activity, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: removing %q from %q: %w", email, activity, err)
	}
	if n == 0 {
		return apperror.Conflict("Student is not signed up for this activity")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing unregister: %w", err)
	}
	return nil
}
