// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tastebud/internal/metrics"
	"github.com/tomtom215/tastebud/internal/recommend"
	"github.com/tomtom215/tastebud/internal/recommend/preference"
)

// Key prefixes for BadgerDB storage
const (
	prefsKeyPrefix   = "prefs:"
	appliedKeyPrefix = "prefs_applied:"
)

const backendBadger = "badger"

// DefaultMaxConflictRetries bounds how often a conflicting Merge is retried.
const DefaultMaxConflictRetries = 32

// BadgerConfig configures the BadgerDB preference backend.
type BadgerConfig struct {
	// Path is the data directory.
	Path string

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// InMemory runs Badger without touching disk. Path is ignored.
	InMemory bool
}

// OpenBadger opens a BadgerDB instance for preference storage.
func OpenBadger(cfg BadgerConfig) (*badger.DB, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Path, err)
	}
	return db, nil
}

// BadgerStore implements recommend.PreferenceStore on BadgerDB.
type BadgerStore struct {
	db         *badger.DB
	logger     zerolog.Logger
	maxRetries int
	now        func() time.Time
}

// NewBadgerStore creates a BadgerDB-backed preference store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBadgerStore(db *badger.DB, logger zerolog.Logger) *BadgerStore {
	return &BadgerStore{
		db:         db,
		logger:     logger.With().Str("component", "preference_store").Str("backend", backendBadger).Logger(),
		maxRetries: DefaultMaxConflictRetries,
		now:        time.Now,
	}
}

func prefsKey(userID string) []byte {
	return []byte(prefsKeyPrefix + userID)
}

func appliedKey(userID, orderID string) []byte {
	return []byte(appliedKeyPrefix + userID + ":" + orderID)
}

func appliedPrefix(userID string) []byte {
	return []byte(appliedKeyPrefix + userID + ":")
}

// transient wraps a storage failure, leaving not-found and stale-profile
// errors untouched.
func transient(op string, err error) error {
	if errors.Is(err, recommend.ErrNotFound) || errors.Is(err, recommend.ErrStaleProfile) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", recommend.ErrTransientStore, op, err)
}

func readPrefs(txn *badger.Txn, userID string) (*preference.Preferences, error) {
	item, err := txn.Get(prefsKey(userID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("preferences for user %q: %w", userID, recommend.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	var snap preference.Snapshot
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &snap)
	}); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return preference.FromSnapshot(snap), nil
}

func writePrefs(txn *badger.Txn, prefs *preference.Preferences) error {
	data, err := json.Marshal(prefs.Snapshot())
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := txn.Set(prefsKey(prefs.UserID), data); err != nil {
		return fmt.Errorf("set preferences: %w", err)
	}
	return nil
}

// update runs fn in a read-write transaction, retrying on write conflicts.
func (s *BadgerStore) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		metrics.RecordPreferenceMergeRetry(backendBadger)
		s.logger.Debug().Int("attempt", attempt+1).Msg("write conflict, retrying")
	}
	return err
}

// Create stores an empty profile for userID unless one exists.
func (s *BadgerStore) Create(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: empty user ID", recommend.ErrInvalidRequest)
	}
	err := s.update(ctx, func(txn *badger.Txn) error {
		_, err := txn.Get(prefsKey(userID))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return writePrefs(txn, preference.New(userID))
	})
	if err != nil {
		return transient("create preferences", err)
	}
	return nil
}

// Load returns the profile for userID.
func (s *BadgerStore) Load(_ context.Context, userID string) (*preference.Preferences, error) {
	var prefs *preference.Preferences
	err := s.db.View(func(txn *badger.Txn) error {
		p, err := readPrefs(txn, userID)
		if err != nil {
			return err
		}
		prefs = p
		return nil
	})
	if err != nil {
		return nil, transient("load preferences", err)
	}
	return prefs, nil
}

// Save replaces the profile for prefs.UserID. The profile must exist.
func (s *BadgerStore) Save(ctx context.Context, prefs *preference.Preferences) error {
	err := s.update(ctx, func(txn *badger.Txn) error {
		current, err := readPrefs(txn, prefs.UserID)
		if err != nil {
			return err
		}
		replacement := prefs.Clone()
		replacement.UpdatedAt = s.now()
		replacement.Revision = current.Revision + 1
		return writePrefs(txn, replacement)
	})
	if err != nil {
		return transient("save preferences", err)
	}
	return nil
}

// Replace swaps in prefs and the applied-order markers in one transaction if
// the stored revision is still expectedRevision. A write that commits between
// the read and the commit makes badger report a conflict; the retry then sees
// the new revision and fails with ErrStaleProfile.
func (s *BadgerStore) Replace(ctx context.Context, prefs *preference.Preferences, expectedRevision int64, applied []string) error {
	err := s.update(ctx, func(txn *badger.Txn) error {
		current, err := readPrefs(txn, prefs.UserID)
		if err != nil {
			return err
		}
		if current.Revision != expectedRevision {
			return fmt.Errorf("preferences for user %q at revision %d, expected %d: %w",
				prefs.UserID, current.Revision, expectedRevision, recommend.ErrStaleProfile)
		}

		replacement := prefs.Clone()
		replacement.UpdatedAt = s.now()
		replacement.Revision = expectedRevision + 1
		if err := writePrefs(txn, replacement); err != nil {
			return err
		}

		if err := clearApplied(txn, prefs.UserID); err != nil {
			return err
		}
		marker, err := replacement.UpdatedAt.MarshalBinary()
		if err != nil {
			return fmt.Errorf("encode applied marker: %w", err)
		}
		for _, orderID := range applied {
			if orderID == "" {
				continue
			}
			if err := txn.Set(appliedKey(prefs.UserID, orderID), marker); err != nil {
				return fmt.Errorf("set applied marker: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return transient("replace preferences", err)
	}
	return nil
}

// clearApplied deletes every applied-order marker of userID.
func clearApplied(txn *badger.Txn, userID string) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = appliedPrefix(userID)

	var keys [][]byte
	it := txn.NewIterator(opts)
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, key := range keys {
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete applied marker: %w", err)
		}
	}
	return nil
}

// Merge adds delta to userID's profile and records orderID in the same
// transaction. A replayed orderID leaves the profile unchanged.
func (s *BadgerStore) Merge(ctx context.Context, userID, orderID string, delta *preference.Preferences) (bool, error) {
	start := time.Now()
	var applied bool

	err := s.update(ctx, func(txn *badger.Txn) error {
		applied = false
		if orderID != "" {
			_, err := txn.Get(appliedKey(userID, orderID))
			if err == nil {
				return nil
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("get applied marker: %w", err)
			}
		}

		prefs, err := readPrefs(txn, userID)
		if err != nil {
			return err
		}
		prefs.Merge(delta)
		prefs.UpdatedAt = s.now()
		prefs.Revision++
		if err := writePrefs(txn, prefs); err != nil {
			return err
		}

		if orderID != "" {
			marker, err := prefs.UpdatedAt.MarshalBinary()
			if err != nil {
				return fmt.Errorf("encode applied marker: %w", err)
			}
			if err := txn.Set(appliedKey(userID, orderID), marker); err != nil {
				return fmt.Errorf("set applied marker: %w", err)
			}
		}
		applied = true
		return nil
	})
	if err != nil {
		err = transient("merge preferences", err)
	}

	metrics.RecordPreferenceMerge(backendBadger, time.Since(start), applied, err)
	if err != nil {
		return false, err
	}
	if !applied {
		s.logger.Debug().Str("user_id", userID).Str("order_id", orderID).Msg("order already merged")
	}
	return applied, nil
}

// DefaultGCRatio is the discard ratio passed to badger's value log GC.
const DefaultGCRatio = 0.5

// RunGC reclaims value log space until badger finds nothing to rewrite.
// In-memory databases have no value log and return nil.
func (s *BadgerStore) RunGC(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.db.RunValueLogGC(DefaultGCRatio)
		switch {
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return nil
		case errors.Is(err, badger.ErrRejected):
			s.logger.Debug().Msg("value log GC already running")
			return nil
		case err != nil:
			return fmt.Errorf("run value log GC: %w", err)
		}
	}
}
