package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mergington/activities/internal/apperror"
	"github.com/mergington/activities/internal/model"
)

// participantsOf returns the participant list for one activity.
func participantsOf(t *testing.T, db *DB, name string) []string {
	t.Helper()
	roster, err := db.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for _, a := range roster {
		if a.Name == name {
			return a.Participants
		}
	}
	t.Fatalf("activity %q not in roster", name)
	return nil
}

func TestAddParticipant_AppendsAtEnd(t *testing.T) {
	db := newSeededDB(t)

	if err := db.AddParticipant(context.Background(), "Chess Club", "x@y.edu"); err != nil {
		t.Fatalf("AddParticipant() error = %v", err)
	}

	got := participantsOf(t, db, "Chess Club")
	want := []string{"michael@mergington.edu", "daniel@mergington.edu", "x@y.edu"}
	if len(got) != len(want) {
		t.Fatalf("participants = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("participants[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAddParticipant_Duplicate(t *testing.T) {
	db := newSeededDB(t)

	err := db.AddParticipant(context.Background(), "Chess Club", "michael@mergington.edu")
	if err == nil {
		t.Fatal("AddParticipant() should fail for an email already signed up")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestAddParticipant_UnknownActivity(t *testing.T) {
	db := newSeededDB(t)

	err := db.AddParticipant(context.Background(), "Knitting Circle", "x@y.edu")
	if err == nil {
		t.Fatal("AddParticipant() should fail for an unknown activity")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestAddParticipant_CapacityEnforced(t *testing.T) {
	db := newSeededDB(t)

	// Math Club seeds 2 of 10. Fill the remaining 8, then the next signup
	// must be rejected.
	for i := 0; i < 8; i++ {
		email := fmt.Sprintf("filler%d@mergington.edu", i)
		if err := db.AddParticipant(context.Background(), "Math Club", email); err != nil {
			t.Fatalf("AddParticipant(filler %d) error = %v", i, err)
		}
	}

	err := db.AddParticipant(context.Background(), "Math Club", "late@mergington.edu")
	if err == nil {
		t.Fatal("AddParticipant() should fail once the activity is full")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
	if err.Error() != "Activity is full" {
		t.Errorf("message = %q, want %q", err.Error(), "Activity is full")
	}

	// A duplicate signup to a full activity reports the duplicate, not the
	// capacity.
	err = db.AddParticipant(context.Background(), "Math Club", "james@mergington.edu")
	if err == nil || err.Error() != "Student is already signed up" {
		t.Errorf("duplicate-to-full error = %v, want %q", err, "Student is already signed up")
	}
}

func TestRemoveParticipant(t *testing.T) {
	db := newSeededDB(t)

	if err := db.RemoveParticipant(context.Background(), "Chess Club", "michael@mergington.edu"); err != nil {
		t.Fatalf("RemoveParticipant() error = %v", err)
	}

	got := participantsOf(t, db, "Chess Club")
	if len(got) != 1 || got[0] != "daniel@mergington.edu" {
		t.Errorf("participants = %v, want [daniel@mergington.edu]", got)
	}
}

func TestRemoveParticipant_NotSignedUp(t *testing.T) {
	db := newSeededDB(t)

	err := db.RemoveParticipant(context.Background(), "Chess Club", "ghost@mergington.edu")
	if err == nil {
		t.Fatal("RemoveParticipant() should fail for an email that is not signed up")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestRemoveParticipant_UnknownActivity(t *testing.T) {
	db := newSeededDB(t)

	err := db.RemoveParticipant(context.Background(), "Knitting Circle", "x@y.edu")
	if err == nil {
		t.Fatal("RemoveParticipant() should fail for an unknown activity")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSignUpUnregisterRoundTrip(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	// Unregister then re-signup restores membership, at the end of the list.
	if err := db.RemoveParticipant(ctx, "Art Club", "amelia@mergington.edu"); err != nil {
		t.Fatalf("RemoveParticipant() error = %v", err)
	}
	if err := db.AddParticipant(ctx, "Art Club", "amelia@mergington.edu"); err != nil {
		t.Fatalf("re-AddParticipant() error = %v", err)
	}

	got := participantsOf(t, db, "Art Club")
	want := []string{"harper@mergington.edu", "amelia@mergington.edu"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("participants = %v, want %v", got, want)
	}
}

func TestList_EmptyActivityMarshalsAsArray(t *testing.T) {
	db := newTestDB(t)

	// An activity with no participants must serialize as [], not null.
	err := db.Seed(context.Background(), model.Roster{
		{Name: "New Club", Description: "d", Schedule: "s", MaxParticipants: 5},
	})
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	roster, err := db.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if roster[0].Participants == nil {
		t.Error("Participants should be non-nil for an empty activity")
	}
}
