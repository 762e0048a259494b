// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package recommend

import "errors"

var (
	// ErrNotFound reports a referenced user, item or order that does not exist.
	// It is returned to the caller and never retried.
	ErrNotFound = errors.New("not found")

	// ErrInvariantViolation reports a state that must never occur for valid
	// data, such as a registered user without a preference profile.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrTransientStore reports an I/O failure while loading or saving
	// preferences. The caller may retry once.
	ErrTransientStore = errors.New("transient store failure")

	// ErrStaleProfile reports a conditional replace that lost to a concurrent
	// write. The caller reloads and recomputes.
	ErrStaleProfile = errors.New("preference profile changed concurrently")

	// ErrInvalidRequest reports a malformed recommendation or order request.
	ErrInvalidRequest = errors.New("invalid request")
)
