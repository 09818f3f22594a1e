// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package users

import "errors"

// Error classes.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

// Errors shown to users. Their messages are the client-facing text.
var (
	ErrUsernameTooShort   error = &classError{msg: "Username must be at least 3 characters", class: ErrInvalidInput}
	ErrPasswordTooShort   error = &classError{msg: "Password must be at least 6 characters", class: ErrInvalidInput}
	ErrUsernameTaken      error = &classError{msg: "Username already exists", class: ErrConflict}
	ErrEmailTaken         error = &classError{msg: "Email already registered", class: ErrConflict}
	ErrInvalidCredentials       = errors.New("Invalid username or password") //nolint:staticcheck // client-facing message
)

// ErrCreateFailed wraps unexpected persistence failures during registration.
var ErrCreateFailed = errors.New("Failed to create user") //nolint:staticcheck // client-facing message

type classError struct {
	msg   string
	class error
}

func (e *classError) Error() string { return e.msg }

func (e *classError) Unwrap() error { return e.class }
