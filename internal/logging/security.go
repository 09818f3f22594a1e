// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package logging

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Account event types recorded by SecurityLogger.
const (
	EventRegister     = "account.register"
	EventRegisterFail = "account.register_failed"
	EventLogin        = "account.login"
	EventLoginFail    = "account.login_failed"
)

// SecurityLogger writes account lifecycle events with identifiers masked.
// Passwords and tokens are never accepted as fields.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a SecurityLogger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: WithComponent("security")}
}

// NewSecurityLoggerWithLogger creates a SecurityLogger writing to logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{logger: logger.With().Str("component", "security").Logger()}
}

// LogRegister records a successful registration.
func (l *SecurityLogger) LogRegister(ctx context.Context, username, email string) {
	l.event(ctx, zerolog.InfoLevel, EventRegister).
		Str("username", SanitizeUsername(username)).
		Str("email", SanitizeEmail(email)).
		Msg("Account created")
}

// LogRegisterFailure records a rejected registration and the reason code.
func (l *SecurityLogger) LogRegisterFailure(ctx context.Context, username, reason string) {
	l.event(ctx, zerolog.WarnLevel, EventRegisterFail).
		Str("username", SanitizeUsername(username)).
		Str("reason", reason).
		Msg("Registration rejected")
}

// LogLogin records a successful login.
func (l *SecurityLogger) LogLogin(ctx context.Context, username string) {
	l.event(ctx, zerolog.InfoLevel, EventLogin).
		Str("username", SanitizeUsername(username)).
		Msg("Login succeeded")
}

// LogLoginFailure records a failed login.
func (l *SecurityLogger) LogLoginFailure(ctx context.Context, username string) {
	l.event(ctx, zerolog.WarnLevel, EventLoginFail).
		Str("username", SanitizeUsername(username)).
		Msg("Login failed")
}

func (l *SecurityLogger) event(ctx context.Context, level zerolog.Level, eventType string) *zerolog.Event {
	e := l.logger.WithLevel(level).Str("event", eventType)
	if id := RequestIDFromContext(ctx); id != "" {
		e = e.Str("request_id", id)
	}
	return e
}

// SanitizeUsername keeps the first two characters and masks the rest.
func SanitizeUsername(username string) string {
	r := []rune(username)
	if len(r) <= 2 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:2]) + strings.Repeat("*", len(r)-2)
}

// SanitizeEmail masks the local part of an address, keeping the domain.
//
//	SanitizeEmail("alice@example.com") // "a****@example.com"
func SanitizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return SanitizeUsername(email)
	}
	local := []rune(email[:at])
	return string(local[:1]) + strings.Repeat("*", len(local)-1) + email[at:]
}
