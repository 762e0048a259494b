// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/tastebud/internal/recommend/preference"
)

// PreferenceStore persists one preference profile per user.
//
// Implementations wrap I/O failures with ErrTransientStore and report
// missing profiles with ErrNotFound.
type PreferenceStore interface {
	// Create stores an empty profile for userID. It is a no-op when one exists.
	Create(ctx context.Context, userID string) error

	// Load returns the profile for userID.
	Load(ctx context.Context, userID string) (*preference.Preferences, error)

	// Save atomically replaces the whole profile. The profile must exist.
	// Applied-order markers are left as they are.
	Save(ctx context.Context, prefs *preference.Preferences) error

	// Replace atomically replaces the whole profile and its set of applied
	// orders, but only while the stored revision still equals
	// expectedRevision. Otherwise nothing changes and the error wraps
	// ErrStaleProfile.
	Replace(ctx context.Context, prefs *preference.Preferences, expectedRevision int64, applied []string) error

	// Merge atomically adds delta to userID's profile and records orderID as
	// applied. When orderID was already applied nothing changes and applied
	// is false.
	Merge(ctx context.Context, userID, orderID string, delta *preference.Preferences) (applied bool, err error)
}

// Catalog provides read access to menu items.
type Catalog interface {
	// FindByID returns one item or ErrNotFound.
	FindByID(ctx context.Context, id string) (*Item, error)

	// Candidates returns every item whose ID is not in exclude, in catalog
	// default order (creation time, then ID).
	Candidates(ctx context.Context, exclude []string) ([]Item, error)

	// ByType returns the items other than excludeID whose type equals
	// itemType when sameType is true, or differs from it otherwise.
	ByType(ctx context.Context, itemType, excludeID string, sameType bool) ([]Item, error)

	// TopRated returns up to limit items by rating descending.
	TopRated(ctx context.Context, limit int) ([]Item, error)

	// SameCategory returns up to limit items sharing itemID's category,
	// excluding itemID, by rating descending. ErrNotFound if itemID is unknown.
	SameCategory(ctx context.Context, itemID string, limit int) ([]Item, error)
}

// OrderLine is one (item, quantity) pair of an order.
type OrderLine struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// OrderSnapshot is the read-only view of a placed order.
type OrderSnapshot struct {
	ID        string
	UserID    string
	Lines     []OrderLine
	CreatedAt time.Time
}

// ItemIDs returns the distinct item IDs of the order in line order.
func (o *OrderSnapshot) ItemIDs() []string {
	seen := make(map[string]struct{}, len(o.Lines))
	ids := make([]string, 0, len(o.Lines))
	for _, l := range o.Lines {
		if _, ok := seen[l.ItemID]; ok {
			continue
		}
		seen[l.ItemID] = struct{}{}
		ids = append(ids, l.ItemID)
	}
	return ids
}

// OrderHistory provides read access to placed orders.
type OrderHistory interface {
	// MostRecent returns the user's latest order, or nil when there is none.
	MostRecent(ctx context.Context, userID string) (*OrderSnapshot, error)

	// ForUser returns all of the user's orders, oldest first.
	ForUser(ctx context.Context, userID string) ([]OrderSnapshot, error)
}

// Review is a user's rating of an item.
type Review struct {
	ItemID    string
	UserID    string
	Rating    int
	CreatedAt time.Time
}

// ReviewHistory provides read access to reviews.
type ReviewHistory interface {
	// LatestRating returns the most recent rating userID gave itemID.
	// ok is false when the user never reviewed the item.
	LatestRating(ctx context.Context, userID, itemID string) (rating int, ok bool, err error)

	// LatestReview returns the user's most recent review of any item, or nil.
	LatestReview(ctx context.Context, userID string) (*Review, error)
}
