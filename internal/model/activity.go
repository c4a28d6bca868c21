package model

import (
	"bytes"
	"encoding/json"
)

// Activity represents one extracurricular activity and its enrollment.
//
// The set of activities is fixed at startup; only Participants mutates.
// Participants is an ordered sequence (signup appends, unregister removes
// the single matching entry) and contains each email at most once.
// The order is display order (first come, first listed), not a priority.
type Activity struct {
	Name            string   `json:"-"` // key in the roster object, not repeated in the value
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Roster is the full set of activities in seed order.
//
// The API serves the roster as a JSON object keyed by activity name, with
// keys appearing in seed order, the same shape existing clients already
// consume. A Go map can't guarantee key order, so Roster is a slice with a
// custom marshaller that writes the object by hand.
type Roster []Activity

// MarshalJSON encodes the roster as an ordered JSON object:
//
//	{"Chess Club": {...}, "Programming Class": {...}, ...}
func (r Roster) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
