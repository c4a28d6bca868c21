// Package model defines the data structures used throughout the application.
package model

import "time"

// Collection identifies one of the two disjoint account namespaces.
//
// The original API dispatched on a raw path segment ("students"/"clubs"),
// which means a typo like "student" would silently address a third,
// nonexistent namespace. Making Collection a named type and parsing it once
// at the HTTP boundary means every layer below the handlers works with a
// value that is already known to be valid.
type Collection string

const (
	Students Collection = "students"
	Clubs    Collection = "clubs"
)

// ParseCollection validates a raw collection name from the URL.
// The bool result is false for anything other than "students" or "clubs".
func ParseCollection(s string) (Collection, bool) {
	switch Collection(s) {
	case Students, Clubs:
		return Collection(s), true
	}
	return "", false
}

func (c Collection) String() string { return string(c) }

// Title returns the display form used in confirmation messages,
// e.g. "Students registered successfully".
func (c Collection) Title() string {
	switch c {
	case Students:
		return "Students"
	case Clubs:
		return "Clubs"
	}
	return string(c)
}

// Profile is the mutable display subset of a user record, as opposed to
// the credentials (email, password).
type Profile struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

// User represents a registered account in one of the two collections.
//
// Email is the external key: unique within its collection, but the same
// email may exist independently in both collections. ID is our internal
// surrogate key (xid) so primary keys never depend on user input.
//
// Password is stored as-is and compared with exact string equality;
// every call is authenticated by the credentials it carries, with no
// session state in between. The json:"-" tag keeps it out of every
// API response.
type User struct {
	ID         string     `json:"id"`
	Collection Collection `json:"collection"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Password   string     `json:"-"`
	Profile    Profile    `json:"profile"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
