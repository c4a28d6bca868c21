package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mergington/activities/internal/apperror"
	"github.com/mergington/activities/internal/model"
)

// AccountService is the slice of the account business logic the HTTP layer
// needs. Declaring the interface here (at the consumer) lets handler tests
// substitute a mock without touching the real service.
type AccountService interface {
	Register(ctx context.Context, collection model.Collection, email, name, password string) (*model.User, error)
	Login(ctx context.Context, collection model.Collection, email, password string) (*model.User, error)
	GetProfile(ctx context.Context, collection model.Collection, email string) (model.Profile, error)
	UpdateProfile(ctx context.Context, collection model.Collection, email string, name, bio *string) (model.Profile, error)
	ChangePassword(ctx context.Context, collection model.Collection, email, currentPassword, newPassword string) error
}

// AccountHandler exposes the account store over HTTP:
//
//	POST /register/{collection}
//	POST /login/{collection}
//	GET  /profile/{collection}/{email}
//	PUT  /profile/{collection}/{email}
//	PUT  /change-password/{collection}/{email}
type AccountHandler struct {
	accounts AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(accounts AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

// pathParam returns a URL path parameter with percent-escapes decoded, so
// "/profile/students/jane%40mergington.edu" yields "jane@mergington.edu"
// and activity names keep their spaces.
func pathParam(r *http.Request, name string) string {
	v := r.PathValue(name)
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

// collection parses the {collection} path segment. The raw string is
// rejected here, at the boundary; everything below the handlers works
// with a validated model.Collection.
func collection(r *http.Request) (model.Collection, error) {
	raw := pathParam(r, "collection")
	col, ok := model.ParseCollection(raw)
	if !ok {
		return "", apperror.ValidationFailed("collection", "Invalid user type")
	}
	return col, nil
}

// registerRequest is the body of POST /register/{collection}.
type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /register/{collection}
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	col, err := collection(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if _, err := h.accounts.Register(r.Context(), col, req.Email, req.Name, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": col.Title() + " registered successfully",
	})
}

// loginRequest is the body of POST /login/{collection}.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and returns the profile.
//
// HTTP: POST /login/{collection}
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	col, err := collection(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, err := h.accounts.Login(r.Context(), col, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": col.Title() + " logged in",
		"profile": user.Profile,
	})
}

// HandleGetProfile returns the profile for an account.
//
// HTTP: GET /profile/{collection}/{email}
func (h *AccountHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	col, err := collection(r)
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.accounts.GetProfile(r.Context(), col, pathParam(r, "email"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// updateProfileRequest is the body of PUT /profile/{collection}/{email}.
// Pointer fields distinguish "not supplied" (nil, keep the stored value)
// from "supplied as empty" (clear the field).
type updateProfileRequest struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

// HandleUpdateProfile overwrites only the profile fields supplied.
//
// HTTP: PUT /profile/{collection}/{email}
func (h *AccountHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	col, err := collection(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid profile JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	profile, err := h.accounts.UpdateProfile(r.Context(), col, pathParam(r, "email"), req.Name, req.Bio)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated",
		"profile": profile,
	})
}

// changePasswordRequest is the body of PUT /change-password/{collection}/{email}.
//
// An earlier revision of this API reused the login payload here and carried
// the new password in its "name" field; these are dedicated fields instead,
// with the same verify-then-overwrite semantics.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// HandleChangePassword verifies the current password, then overwrites it.
//
// HTTP: PUT /change-password/{collection}/{email}
func (h *AccountHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	col, err := collection(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid change-password JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), col, pathParam(r, "email"), req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed"})
}
