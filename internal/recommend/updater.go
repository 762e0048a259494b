// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tastebud/internal/recommend/preference"
)

// maxRebuildAttempts bounds how often Rebuild recomputes a profile that
// kept changing underneath it.
const maxRebuildAttempts = 5

// Updater folds placed orders into users' preference profiles.
//
// Merges are serialized by the store. Rebuild additionally takes the
// per-user lock returned by Lock, which order placement holds when its
// merge and its order insert commit separately.
type Updater struct {
	store         PreferenceStore
	catalog       Catalog
	reviews       ReviewHistory
	orders        OrderHistory
	defaultWeight float64
	locks         sync.Map // userID -> *sync.Mutex
	logger        zerolog.Logger
}

// NewUpdater creates an Updater. orders is only needed by Rebuild and may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewUpdater(store PreferenceStore, catalog Catalog, reviews ReviewHistory, orders OrderHistory, cfg *Config, logger zerolog.Logger) *Updater {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	weight := cfg.DefaultWeight
	if weight <= 0 {
		weight = preference.DefaultWeight
	}
	return &Updater{
		store:         store,
		catalog:       catalog,
		reviews:       reviews,
		orders:        orders,
		defaultWeight: weight,
		logger:        logger.With().Str("component", "preference_updater").Logger(),
	}
}

// Lock takes userID's rebuild lock and returns its release function.
func (u *Updater) Lock(userID string) func() {
	v, _ := u.locks.LoadOrStore(userID, &sync.Mutex{})
	mu, ok := v.(*sync.Mutex)
	if !ok {
		mu = &sync.Mutex{}
		u.locks.Store(userID, mu)
	}
	mu.Lock()
	return mu.Unlock
}

// Resolve looks up every order line in the catalog and the user's review
// history. The implied weight of a line is the user's most recent rating of
// the item, or the default weight when the user never reviewed it.
func (u *Updater) Resolve(ctx context.Context, userID string, lines []OrderLine) ([]preference.Line, error) {
	resolved := make([]preference.Line, 0, len(lines))
	for _, line := range lines {
		item, err := u.catalog.FindByID(ctx, line.ItemID)
		if err != nil {
			return nil, fmt.Errorf("resolve item %q: %w", line.ItemID, err)
		}

		weight := u.defaultWeight
		rating, ok, err := u.reviews.LatestRating(ctx, userID, line.ItemID)
		if err != nil {
			return nil, fmt.Errorf("resolve rating for item %q: %w", line.ItemID, err)
		}
		if ok {
			weight = float64(rating)
		}

		resolved = append(resolved, preference.Line{
			ItemID:      item.ID,
			Type:        item.Type,
			Category:    item.Category,
			Ingredients: item.Ingredients,
			Weight:      weight,
		})
	}
	return resolved, nil
}

// Prepare resolves the order lines and returns the profile delta they produce.
func (u *Updater) Prepare(ctx context.Context, userID string, lines []OrderLine) (*preference.Preferences, error) {
	resolved, err := u.Resolve(ctx, userID, lines)
	if err != nil {
		return nil, err
	}
	return preference.Delta(userID, resolved), nil
}

// Commit merges a prepared delta into the user's profile in a single atomic
// write. Committing the same orderID twice changes nothing the second time.
func (u *Updater) Commit(ctx context.Context, userID, orderID string, delta *preference.Preferences) error {
	applied, err := u.store.Merge(ctx, userID, orderID, delta)
	if err != nil {
		return u.classify(userID, err)
	}
	if !applied {
		u.logger.Info().
			Str("user_id", userID).
			Str("order_id", orderID).
			Msg("order already applied to preferences, skipping")
	}
	return nil
}

// OnOrderPlaced updates the user's profile with a placed order.
func (u *Updater) OnOrderPlaced(ctx context.Context, userID, orderID string, lines []OrderLine) error {
	delta, err := u.Prepare(ctx, userID, lines)
	if err != nil {
		return err
	}
	return u.Commit(ctx, userID, orderID, delta)
}

// Rebuild recomputes the user's profile from the full order history and
// replaces the stored profile. Items no longer in the catalog are skipped.
//
// The replace is conditional on the profile revision read before the
// history. An order merged in between makes the replace fail with
// ErrStaleProfile and the rebuild starts over, so no merged order is lost.
// After maxRebuildAttempts the error wraps ErrTransientStore.
func (u *Updater) Rebuild(ctx context.Context, userID string) (*preference.Preferences, error) {
	if u.orders == nil {
		return nil, fmt.Errorf("rebuild preferences: no order history configured")
	}

	unlock := u.Lock(userID)
	defer unlock()

	var lastErr error
	for attempt := 1; attempt <= maxRebuildAttempts; attempt++ {
		rebuilt, err := u.rebuildOnce(ctx, userID)
		if err == nil {
			return rebuilt, nil
		}
		if !errors.Is(err, ErrStaleProfile) {
			return nil, err
		}
		lastErr = err
		u.logger.Debug().
			Str("user_id", userID).
			Int("attempt", attempt).
			Msg("profile changed during rebuild, retrying")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}
	return nil, fmt.Errorf("%w: rebuild preferences for user %q: %w", ErrTransientStore, userID, lastErr)
}

func (u *Updater) rebuildOnce(ctx context.Context, userID string) (*preference.Preferences, error) {
	current, err := u.store.Load(ctx, userID)
	if err != nil {
		return nil, u.classify(userID, err)
	}

	history, err := u.orders.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load order history for %q: %w", userID, err)
	}

	rebuilt := preference.New(userID)
	orderIDs := make([]string, 0, len(history))
	skipped := 0
	for i := range history {
		orderIDs = append(orderIDs, history[i].ID)
		for _, line := range history[i].Lines {
			resolved, err := u.Resolve(ctx, userID, []OrderLine{line})
			if errors.Is(err, ErrNotFound) {
				skipped++
				continue
			}
			if err != nil {
				return nil, err
			}
			preference.Apply(rebuilt, resolved)
		}
	}

	if err := u.store.Replace(ctx, rebuilt, current.Revision, orderIDs); err != nil {
		return nil, u.classify(userID, err)
	}

	u.logger.Info().
		Str("user_id", userID).
		Int("orders", len(history)).
		Int("skipped_lines", skipped).
		Msg("preferences rebuilt from order history")

	stored, err := u.store.Load(ctx, userID)
	if err != nil {
		return nil, u.classify(userID, err)
	}
	return stored, nil
}

// classify turns a missing profile into an invariant violation: every
// registered user has one from registration on.
func (u *Updater) classify(userID string, err error) error {
	if errors.Is(err, ErrNotFound) {
		u.logger.Error().
			Str("user_id", userID).
			Err(err).
			Msg("preference profile missing for registered user")
		return fmt.Errorf("%w: no preference profile for user %q: %w", ErrInvariantViolation, userID, err)
	}
	return fmt.Errorf("update preferences for user %q: %w", userID, err)
}
