// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

// Package validation validates API request bodies with go-playground/validator.
//
// A single validator instance is shared process-wide because it caches struct
// metadata. Field names in errors are the JSON names of the request, with
// nested paths such as "items[1].quantity", so clients can map them back to
// their payload.
//
//	var req models.CreateOrderRequest
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondError(w, http.StatusBadRequest, verr.ToAPIError())
//	    return
//	}
package validation
