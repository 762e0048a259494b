// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

/*
Package api serves Tastebud's HTTP API on a chi router.

Routes (all JSON, all under /api/v1 except /metrics):

	GET   /health, /health/live, /health/ready
	POST  /users                              register (creates the preference profile)
	GET   /users/{id}
	GET   /users/{id}/preferences
	POST  /users/{id}/preferences/rebuild
	GET   /users/{id}/orders                  newest first
	GET   /users/{id}/recommendations         ?mode=personalized|rating|popular|similar&k=&item_id=
	GET   /items, POST /items, GET /items/{id}
	GET   /items/{id}/reviews, POST /items/{id}/reviews
	GET   /items/{id}/similar                 ?k=
	GET   /recommendations/popular            ?k=
	POST  /orders                             Idempotency-Key header replays the original order
	GET   /orders/{id}, PUT /orders/{id}/status
	GET   /metrics                            Prometheus

Every response uses the models.APIResponse envelope. Errors map to status
codes in one place (writeError): validation 400, not found 404, duplicate
409, rate limited 429, invariant violation 500, transient store failure 503.
*/
package api
