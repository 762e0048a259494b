// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

/*
Package middleware provides the HTTP middleware Tastebud adds on top of
chi's own: request and correlation IDs, Prometheus request metrics and
request logging with slow-request warnings.

Every middleware here has the http.HandlerFunc shape; the api package
adapts them to chi's func(http.Handler) http.Handler.

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.RequestLogger(time.Second)))

RequestID must run first so later layers log with the request's IDs.
*/
package middleware
