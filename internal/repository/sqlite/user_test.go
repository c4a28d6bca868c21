package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/mergington/activities/internal/apperror"
	"github.com/mergington/activities/internal/model"
)

// createTestUser creates a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, col model.Collection, email string) *model.User {
	t.Helper()
	user := &model.User{
		Collection: col,
		Email:      email,
		Name:       "Test User",
		Password:   "hunter2",
		Profile:    model.Profile{Name: "Test User"},
	}
	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Collection: model.Students,
		Email:      "jane@mergington.edu",
		Name:       "Jane",
		Password:   "pw",
		Profile:    model.Profile{Name: "Jane"},
	}

	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Verify the struct was filled in-place.
	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateEmailSameCollection(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, model.Students, "dup@mergington.edu")

	duplicate := &model.User{
		Collection: model.Students,
		Email:      "dup@mergington.edu",
		Name:       "Other",
		Password:   "pw",
	}
	err := db.Create(context.Background(), duplicate)
	if err == nil {
		t.Fatal("Create() should fail for duplicate email in the same collection")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestUserCreate_SameEmailBothCollections(t *testing.T) {
	db := newTestDB(t)

	// The collections are independent namespaces: the same email may exist
	// in both without conflict.
	createTestUser(t, db, model.Students, "shared@mergington.edu")
	createTestUser(t, db, model.Clubs, "shared@mergington.edu")

	student, err := db.Get(context.Background(), model.Students, "shared@mergington.edu")
	if err != nil {
		t.Fatalf("Get(students) error = %v", err)
	}
	club, err := db.Get(context.Background(), model.Clubs, "shared@mergington.edu")
	if err != nil {
		t.Fatalf("Get(clubs) error = %v", err)
	}
	if student.ID == club.ID {
		t.Error("accounts in different collections should be independent records")
	}
}

func TestUserGet(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, model.Clubs, "chess@mergington.edu")

	found, err := db.Get(context.Background(), model.Clubs, "chess@mergington.edu")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.Password != "hunter2" {
		t.Errorf("Password = %q, want %q", found.Password, "hunter2")
	}
	if found.Collection != model.Clubs {
		t.Errorf("Collection = %q, want %q", found.Collection, model.Clubs)
	}
}

func TestUserGet_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Get(context.Background(), model.Students, "ghost@mergington.edu")
	if err == nil {
		t.Fatal("Get() should fail for an unknown email")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUserUpdate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, model.Students, "edit@mergington.edu")

	user.Profile.Bio = "Chess enthusiast"
	user.Password = "newpw"
	if err := db.Update(context.Background(), user); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.Get(context.Background(), model.Students, "edit@mergington.edu")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found.Profile.Bio != "Chess enthusiast" {
		t.Errorf("Bio = %q, want %q", found.Profile.Bio, "Chess enthusiast")
	}
	if found.Password != "newpw" {
		t.Errorf("Password = %q, want %q", found.Password, "newpw")
	}
}

func TestUserUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Update(context.Background(), &model.User{
		Collection: model.Students,
		Email:      "ghost@mergington.edu",
	})
	if err == nil {
		t.Fatal("Update() should fail for an unknown user")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
