// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package auth is the identity gate in front of the movie endpoints.

Key Components:

  - JWTManager: HS256 token issue and validation. The subject claim carries
    the username and tokens expire after the session timeout (default 24h).
  - HashPassword / VerifyPassword: bcrypt over the SHA-256 hex digest of the
    password, which keeps every input below bcrypt's 72-byte limit.
  - Middleware.RequireAuth: bearer-token middleware that stores the username
    in the request context (see UsernameFromContext).

Token Lifecycle:

Tokens are stateless. When JWT_SECRET is not configured a random secret is
generated at startup, so every restart invalidates outstanding tokens.

Usage Example:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    logging.Fatal().Err(err).Msg("JWT manager")
	}
	mw := auth.NewMiddleware(jwtManager, nil)
	r.With(mw.RequireAuth).Get("/api/movies/trending", h.Trending)

Failure Semantics:

Every rejected request (missing header, wrong scheme, bad signature, expired,
or no subject) receives the same 401 "Invalid or expired token" answer with a
WWW-Authenticate: Bearer header, so clients cannot distinguish the causes.
*/
package auth
