// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tastebud/internal/database"
	"github.com/tomtom215/tastebud/internal/logging"
	"github.com/tomtom215/tastebud/internal/models"
	"github.com/tomtom215/tastebud/internal/recommend"
	"github.com/tomtom215/tastebud/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// sanitizeLogValue escapes control characters so client input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON writes the envelope with status.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func metadata(r *http.Request, start time.Time) models.Metadata {
	md := models.Metadata{
		Timestamp: time.Now().UTC(),
		RequestID: logging.RequestIDFromContext(r.Context()),
	}
	if !start.IsZero() {
		md.QueryTimeMS = time.Since(start).Milliseconds()
	}
	return md
}

// respondSuccess writes data in a success envelope. start is when the
// handler began, for query_time_ms; the zero time omits it.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: metadata(r, start),
	})
}

// respondError writes an error envelope. err, when set, is logged and never
// sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.
			Str("code", apiErr.Code).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: metadata(r, time.Time{}),
		Error:    apiErr,
	})
}

func apiError(code, message string) *models.APIError {
	return &models.APIError{Code: code, Message: message}
}

// writeError maps a service error to its status code and envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, r, http.StatusBadRequest, verr.ToAPIError(), nil)
	case errors.Is(err, recommend.ErrInvariantViolation):
		respondError(w, r, http.StatusInternalServerError,
			apiError(models.ErrCodeInternal, "Internal error"), err)
	case errors.Is(err, recommend.ErrInvalidRequest):
		respondError(w, r, http.StatusBadRequest,
			apiError(models.ErrCodeValidation, clientMessage(err, recommend.ErrInvalidRequest)), nil)
	case errors.Is(err, recommend.ErrNotFound):
		respondError(w, r, http.StatusNotFound,
			apiError(models.ErrCodeNotFound, "Resource not found"), nil)
	case errors.Is(err, database.ErrDuplicate):
		respondError(w, r, http.StatusConflict,
			apiError(models.ErrCodeConflict, "Resource already exists"), nil)
	case errors.Is(err, recommend.ErrTransientStore):
		w.Header().Set("Retry-After", "1")
		respondError(w, r, http.StatusServiceUnavailable,
			apiError(models.ErrCodeServiceUnavailable, "Temporarily unavailable, retry the request"), err)
	default:
		respondError(w, r, http.StatusInternalServerError,
			apiError(models.ErrCodeInternal, "Internal error"), err)
	}
}

// clientMessage returns the text after the sentinel in a wrapped invalid
// request error, which is written for clients.
func clientMessage(err, sentinel error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, sentinel.Error()+": "); i >= 0 {
		return msg[i+len(sentinel.Error())+2:]
	}
	return "Invalid request"
}

// decodeJSON reads a JSON body into v. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", recommend.ErrInvalidRequest)
		}
		return fmt.Errorf("%w: malformed JSON body", recommend.ErrInvalidRequest)
	}
	return nil
}
