// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the store
//
// Services accept primitives and model types, never HTTP types, and return
// domain errors (apperror.*) that the handler translates to status codes.
// Each operation is a single read-modify-write against one store; there is
// no cross-store interaction and no retained session state; every call is
// independently authenticated by the credentials the caller supplies.
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

// AccountService handles registration, authentication, and profile
// management for both account collections.
type AccountService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewAccountService creates an AccountService. The repository is injected
// as an interface so tests can substitute an in-memory mock.
func NewAccountService(users repository.UserRepository, logger *slog.Logger) *AccountService {
	return &AccountService{
		users:  users,
		logger: logger,
	}
}

// Register creates a new account in the given collection. The profile
// starts as {name, bio: ""}. Fails with ErrConflict if the email is already
// registered in that collection; the same email in the other collection is
// an independent account and does not conflict.
func (s *AccountService) Register(ctx context.Context, collection model.Collection, email, name, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	user := &model.User{
		Collection: collection,
		Email:      email,
		Name:       name,
		Password:   password,
		Profile:    model.Profile{Name: name, Bio: ""},
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("collection", collection.String()),
		slog.String("email", email),
	)

	return user, nil
}

// Login verifies the supplied credentials and returns the account.
//
// An unknown email and a wrong password both fail with the same
// ErrUnauthorized, so the caller can't probe which emails are registered.
// Passwords are compared with exact string equality.
func (s *AccountService) Login(ctx context.Context, collection model.Collection, email, password string) (*model.User, error) {
	user, err := s.users.Get(ctx, collection, email)
	if err != nil || user.Password != password {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	s.logger.Info("user logged in",
		slog.String("collection", collection.String()),
		slog.String("email", email),
	)

	return user, nil
}

// GetProfile returns the profile for the given account.
// Fails with ErrNotFound if the email is not registered in the collection.
func (s *AccountService) GetProfile(ctx context.Context, collection model.Collection, email string) (model.Profile, error) {
	user, err := s.users.Get(ctx, collection, email)
	if err != nil {
		return model.Profile{}, err
	}
	return user.Profile, nil
}

// UpdateProfile overwrites only the fields supplied: a nil name or bio
// leaves that field unchanged. Returns the updated profile.
func (s *AccountService) UpdateProfile(ctx context.Context, collection model.Collection, email string, name, bio *string) (model.Profile, error) {
	user, err := s.users.Get(ctx, collection, email)
	if err != nil {
		return model.Profile{}, err
	}

	if name != nil {
		user.Profile.Name = *name
	}
	if bio != nil {
		user.Profile.Bio = *bio
	}

	if err := s.users.Update(ctx, user); err != nil {
		return model.Profile{}, fmt.Errorf("updating profile for %s/%s: %w", collection, email, err)
	}

	s.logger.Info("profile updated",
		slog.String("collection", collection.String()),
		slog.String("email", email),
	)

	return user.Profile, nil
}

// ChangePassword verifies the current password and overwrites it with the
// new one. Check order matters and mirrors the account lookup chain:
// unknown user → ErrNotFound, wrong current password → ErrUnauthorized.
func (s *AccountService) ChangePassword(ctx context.Context, collection model.Collection, email, currentPassword, newPassword string) error {
	if newPassword == "" {
		return apperror.ValidationFailed("new_password", "new password is required")
	}

	user, err := s.users.Get(ctx, collection, email)
	if err != nil {
		return err
	}
	if user.Password != currentPassword {
		return apperror.Unauthorized("Current password incorrect")
	}

	user.Password = newPassword
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("changing password for %s/%s: %w", collection, email, err)
	}

	s.logger.Info("password changed",
		slog.String("collection", collection.String()),
		slog.String("email", email),
	)

	return nil
}
