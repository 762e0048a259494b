// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tastebud/internal/logging"
)

// DefaultSlowRequestThreshold is the latency above which a request is
// logged as slow.
const DefaultSlowRequestThreshold = time.Second

// RequestLogger logs every request with the request-scoped logger: server
// errors at error level, requests slower than slowThreshold at warn and
// everything else at debug.
func RequestLogger(slowThreshold time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowRequestThreshold
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrapWriter(w)

			next(rw, r)

			duration := time.Since(start)
			status := rw.status()

			logger := logging.Ctx(r.Context())
			var event *zerolog.Event
			switch {
			case status >= http.StatusInternalServerError:
				event = logger.Error()
			case duration > slowThreshold:
				event = logger.Warn().Dur("threshold", slowThreshold)
			default:
				event = logger.Debug()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", status).
				Dur("duration", duration).
				Msg(requestMessage(status, duration > slowThreshold))
		}
	}
}

func requestMessage(status int, slow bool) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "request failed"
	case slow:
		return "slow request"
	default:
		return "request served"
	}
}
