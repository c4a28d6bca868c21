package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mergington/activities/internal/apperror"
	"github.com/mergington/activities/internal/model"
)

// RosterService is the slice of the roster business logic the HTTP layer
// needs.
type RosterService interface {
	List(ctx context.Context) (model.Roster, error)
	SignUp(ctx context.Context, activity, email string) error
	Unregister(ctx context.Context, activity, email string) error
}

// RosterHandler exposes the activity roster over HTTP:
//
//	GET    /activities
//	POST   /activities/{name}/signup?email=...
//	DELETE /activities/{name}/unregister?email=...
type RosterHandler struct {
	roster RosterService
	logger *slog.Logger
}

// NewRosterHandler creates a RosterHandler.
func NewRosterHandler(roster RosterService, logger *slog.Logger) *RosterHandler {
	return &RosterHandler{roster: roster, logger: logger}
}

// HandleList returns the full roster as a JSON object keyed by activity
// name, keys in seed order (model.Roster marshals the object by hand to
// keep that order on the wire).
//
// HTTP: GET /activities
func (h *RosterHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	roster, err := h.roster.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// HandleSignup adds the email from the query string to an activity.
//
// HTTP: POST /activities/{name}/signup?email=student@mergington.edu
//
// The email rides in the query string, not the body, matching the contract
// the browser UI already uses.
func (h *RosterHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, apperror.ValidationFailed("email", "email is required"))
		return
	}

	if err := h.roster.SignUp(r.Context(), name, email); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Signed up %s for %s", email, name),
	})
}

// HandleUnregister removes the email from an activity.
//
// HTTP: DELETE /activities/{name}/unregister?email=student@mergington.edu
func (h *RosterHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, apperror.ValidationFailed("email", "email is required"))
		return
	}

	if err := h.roster.Unregister(r.Context(), name, email); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Unregistered %s from %s", email, name),
	})
}
