// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

type contextKey string

// UsernameContextKey holds the authenticated username in a request context.
const UsernameContextKey contextKey = "username"

// UnauthorizedDetail is the message sent for every rejected request.
const UnauthorizedDetail = "Invalid or expired token"

// ErrorWriter renders an authentication failure. The middleware sets the
// WWW-Authenticate header before calling it.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, detail string)

// Middleware enforces bearer-token authentication.
type Middleware struct {
	jwtManager *JWTManager
	writeError ErrorWriter
}

// NewMiddleware creates the middleware. A nil writeError renders
// {"detail": ...} as JSON.
func NewMiddleware(jwtManager *JWTManager, writeError ErrorWriter) *Middleware {
	if writeError == nil {
		writeError = defaultErrorWriter
	}
	return &Middleware{jwtManager: jwtManager, writeError: writeError}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token's username in the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			metrics.RecordAuthEvent("token", false)
			m.reject(w, r)
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
			metrics.RecordAuthEvent("token", false)
			m.reject(w, r)
			return
		}

		metrics.RecordAuthEvent("token", true)
		ctx := context.WithValue(r.Context(), UsernameContextKey, claims.Username())
		ctx = logging.ContextWithUsername(ctx, claims.Username())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	m.writeError(w, r, http.StatusUnauthorized, UnauthorizedDetail)
}

// bearerToken extracts the credentials of an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UsernameFromContext returns the username stored by RequireAuth.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameContextKey).(string)
	return username, ok && username != ""
}

func defaultErrorWriter(w http.ResponseWriter, _ *http.Request, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
