// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/cinematch/internal/users"
	"github.com/tomtom215/cinematch/internal/validation"
)

const registeredMessage = "Account created successfully! Please log in."

// Register handles account creation.
//
// @Summary Register a new user
// @Description Creates an account. Usernames need at least 3 characters and passwords at least 6.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account details"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Username or email already registered"
// @Failure 500 {object} ErrorResponse "Failed to create user"
// @Router /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, &MessageResponse{Message: registeredMessage})
	case errors.Is(err, users.ErrInvalidInput):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, err.Error(), nil)
	case errors.Is(err, users.ErrConflict):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, err.Error(), nil)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, users.ErrCreateFailed.Error(), err)
	}
}

// Login handles credential exchange for a bearer token.
//
// @Summary Log in
// @Description Verifies credentials and returns a 24 hour bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 401 {object} ErrorResponse "Invalid username or password"
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	res, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, &LoginResponse{
			AccessToken: res.AccessToken,
			TokenType:   res.TokenType,
			Username:    res.Username,
		})
	case errors.Is(err, users.ErrInvalidCredentials):
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error(), nil)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Login failed", err)
	}
}
