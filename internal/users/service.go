// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

// Package users registers users and exposes their preference profiles.
//
// Every registered user has a preference profile from registration on; the
// profile is created in the same transaction as the user row, or, for
// preference backends outside the SQL database, before that transaction
// commits.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/tastebud/internal/database"
	"github.com/tomtom215/tastebud/internal/logging"
	"github.com/tomtom215/tastebud/internal/models"
	"github.com/tomtom215/tastebud/internal/recommend"
	"github.com/tomtom215/tastebud/internal/recommend/preference"
	"github.com/tomtom215/tastebud/internal/validation"
)

// Store is the user persistence the service needs. *database.DB implements it.
type Store interface {
	CreateUser(ctx context.Context, user *models.User, apply database.TxFunc) error
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// TxCreator creates a preference profile inside the user's SQL transaction.
// *database.PreferenceStore implements it.
type TxCreator interface {
	CreateTx(ctx context.Context, tx *sql.Tx, userID string) error
}

// Service implements user registration and preference inspection.
type Service struct {
	store      Store
	prefs      recommend.PreferenceStore
	txCreator  TxCreator
	updater    *recommend.Updater
	bcryptCost int
	logger     zerolog.Logger
}

// Config holds service settings.
type Config struct {
	// BcryptCost is the password hashing cost. Values outside bcrypt's
	// range fall back to bcrypt.DefaultCost.
	BcryptCost int

	// TxCreator, when set, creates profiles inside the user transaction.
	TxCreator TxCreator
}

// NewService creates the user service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(store Store, prefs recommend.PreferenceStore, updater *recommend.Updater, cfg Config, logger zerolog.Logger) *Service {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		store:      store,
		prefs:      prefs,
		txCreator:  cfg.TxCreator,
		updater:    updater,
		bcryptCost: cost,
		logger:     logger.With().Str("component", "users").Logger(),
	}
}

// Register creates a user with a hashed password and an empty preference profile.
func (s *Service) Register(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty user request", recommend.ErrInvalidRequest)
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	var apply database.TxFunc
	if s.txCreator != nil {
		apply = func(ctx context.Context, tx *sql.Tx) error {
			return s.txCreator.CreateTx(ctx, tx, user.ID)
		}
	} else {
		apply = func(ctx context.Context, _ *sql.Tx) error {
			return s.prefs.Create(ctx, user.ID)
		}
	}

	if err := s.store.CreateUser(ctx, user, apply); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("user_id", user.ID).
		Str("email", logging.RedactEmail(user.Email)).
		Msg("user registered")
	return user, nil
}

// CheckPassword reports whether password matches the user's stored hash.
func CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// Get returns one user.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// Preferences returns the user's current preference profile.
func (s *Service) Preferences(ctx context.Context, userID string) (*preference.Preferences, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	prefs, err := s.prefs.Load(ctx, userID)
	if errors.Is(err, recommend.ErrNotFound) {
		s.logger.Error().Str("user_id", userID).Msg("preference profile missing for registered user")
		return nil, fmt.Errorf("%w: no preference profile for user %q: %w", recommend.ErrInvariantViolation, userID, err)
	}
	return prefs, err
}

// RebuildPreferences recomputes the user's profile from their order history.
func (s *Service) RebuildPreferences(ctx context.Context, userID string) (*preference.Preferences, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.updater.Rebuild(ctx, userID)
}
