// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"errors"
	"io"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors returned by the user store.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
	// ErrDuplicateUsername and ErrDuplicateEmail wrap ErrDuplicateUser and
	// name the column that collided.
	ErrDuplicateUsername error = &duplicateError{column: "username"}
	ErrDuplicateEmail    error = &duplicateError{column: "email"}
)

type duplicateError struct {
	column string
}

func (e *duplicateError) Error() string { return "duplicate " + e.column }

func (e *duplicateError) Unwrap() error { return ErrDuplicateUser }

// classifyInsertError maps a UNIQUE violation on users to the matching
// duplicate error. Other errors are returned unchanged.
func classifyInsertError(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) || se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return err
	}
	msg := se.Error()
	if se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE && !strings.Contains(msg, "UNIQUE") {
		return err
	}
	switch {
	case strings.Contains(msg, "users.username"):
		return ErrDuplicateUsername
	case strings.Contains(msg, "users.email"):
		return ErrDuplicateEmail
	default:
		return ErrDuplicateUser
	}
}

// closeQuietly closes a resource and explicitly ignores any error
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
