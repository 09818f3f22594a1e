// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package users implements account registration and login on top of the
// database user store and the auth token manager.
//
// Length rules are checked before the store is touched, so a short username
// never reaches persistence. Every error a caller should show to a user is
// one of the exported sentinels; they fall into three classes that the HTTP
// layer maps to status codes:
//
//   - ErrInvalidInput (400): ErrUsernameTooShort, ErrPasswordTooShort
//   - ErrConflict (409): ErrUsernameTaken, ErrEmailTaken
//   - ErrInvalidCredentials (401)
//
// Anything else is an internal failure.
package users
