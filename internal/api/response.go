// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/validation"
)

// Error codes for API responses
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeValidationFailed = validation.ErrorCode
	ErrCodeBadGateway       = "BAD_GATEWAY"
	ErrCodeGatewayTimeout   = "GATEWAY_TIMEOUT"
)

// maxRequestBodyBytes caps JSON request bodies.
const maxRequestBodyBytes = 64 << 10

// ErrorResponse is the body of every non-2xx JSON response. Detail carries
// the user-facing message the frontend displays.
type ErrorResponse struct {
	Detail    string `json:"detail"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// MessageResponse is a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends an error response. err, when non-nil, is logged and
// never shown to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, detail string, err error) {
	ctx := r.Context()
	if err != nil {
		ev := logging.Ctx(ctx).Warn().Err(err)
		if status >= http.StatusInternalServerError {
			ev = logging.CtxErr(ctx, err)
		}
		ev.Int("status", status).Str("code", code).Str("path", r.URL.Path).Msg("API error")
	}

	respondJSON(w, status, &ErrorResponse{
		Detail:    detail,
		Code:      code,
		RequestID: logging.RequestIDFromContext(ctx),
	})
}

// respondValidationError reports the first failing field as the detail.
func respondValidationError(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error(), nil)
}

// writeAuthError adapts respondError to auth.ErrorWriter.
func writeAuthError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	respondError(w, r, status, ErrCodeUnauthorized, detail, nil)
}

// decodeJSONBody reads a bounded JSON body into dst.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
