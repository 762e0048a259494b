// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

/*
Package logging is the zerolog-backed logging layer shared by every Tastebud
package.

A global logger is configured once at startup with Init and used through the
level helpers:

	logging.Init(logging.Config{Level: "info", Format: "json"})
	logging.Info().Str("order_id", id).Msg("Order placed")

Request-scoped logging picks up the request and correlation IDs stored in
the context by the HTTP middleware:

	logging.Ctx(ctx).Warn().Err(err).Msg("Recommendation failed")

Components take a zerolog.Logger in their constructors and tag it:

	logger := logging.WithComponent("recommend")

Libraries that require log/slog (the supervisor tree) get an adapter that
writes through zerolog:

	slogger := logging.NewSlogLogger()

Values that identify a person (emails, user IDs) go through the Redact
helpers before they are logged.

Always terminate an event with Msg or Send; an unterminated event is dropped.
*/
package logging
