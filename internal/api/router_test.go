// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/config"
)

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	foreign, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: "some-other-secret", SessionTimeout: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	foreignToken, err := foreign.GenerateToken("mallory")
	if err != nil {
		t.Fatal(err)
	}

	paths := []string{
		"/api/movies/trending",
		"/api/movies/search?q=a",
		"/api/movies/recommend/Avatar",
		"/api/movies/poster?title=Avatar",
		"/api/movies/titles",
		"/api/tmdb-key",
	}
	tokens := map[string]string{
		"missing":  "",
		"garbage":  "not.a.jwt",
		"wrongkey": foreignToken,
	}

	for _, path := range paths {
		for name, token := range tokens {
			t.Run(name+" "+path, func(t *testing.T) {
				t.Parallel()
				rec := env.do(t, http.MethodGet, path, "", token)
				assertError(t, rec, http.StatusUnauthorized, ErrCodeUnauthorized, auth.UnauthorizedDetail)
				if got := rec.Header().Get("WWW-Authenticate"); got != "Bearer" {
					t.Errorf("WWW-Authenticate = %q, want Bearer", got)
				}
			})
		}
	}
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	req := httptest.NewRequest(http.MethodGet, "/api/movies/trending?page=0", nil)
	req.Header.Set("Authorization", "Bearer "+env.token)
	req.Header.Set("X-Request-ID", "trace-123")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") != "trace-123" {
		t.Errorf("X-Request-ID = %q", rec.Header().Get("X-Request-ID"))
	}
	if body := decodeBody[ErrorResponse](t, rec); body.RequestID != "trace-123" {
		t.Errorf("request_id = %q, want trace-123", body.RequestID)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://localhost:5500")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, Authorization")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Errorf("missing Access-Control-Allow-Origin, headers %v", rec.Header())
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("credentials not allowed")
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodGet, "/api/nothing-here", "", "")
	assertError(t, rec, http.StatusNotFound, ErrCodeNotFound, "Not Found")

	rec = env.do(t, http.MethodGet, "/api/login", "", "")
	assertError(t, rec, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method Not Allowed")
}

func TestRouter_Frontend(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/", http.StatusOK, "<html>index</html>"},
		{"/dashboard", http.StatusOK, "<html>dashboard</html>"},
		{"/static/css/app.css", http.StatusOK, "body{}"},
		{"/static/css/", http.StatusNotFound, ""},
		{"/static/missing.js", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			rec := env.do(t, http.MethodGet, tt.path, "", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}

	rec := env.do(t, http.MethodGet, "/", "", "")
	if csp := rec.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "image.tmdb.org") {
		t.Errorf("CSP = %q", csp)
	}
}

func TestRouter_FrontendMissingPage(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{mutate: func(c *config.Config) {
		c.Web.FrontendDir = t.TempDir()
	}})
	rec := env.do(t, http.MethodGet, "/dashboard", "", "")
	assertError(t, rec, http.StatusNotFound, ErrCodeNotFound, "Not Found")
}

func TestRouter_AuthRateLimit(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{mutate: func(c *config.Config) {
		c.Security.RateLimitDisabled = false
		c.Security.AuthRateLimitReqs = 2
	}})

	body := `{"username":"nobody","password":"secret1"}`
	for i := 0; i < 2; i++ {
		if rec := env.do(t, http.MethodPost, "/api/login", body, ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d, want 401", i+1, rec.Code)
		}
	}
	rec := env.do(t, http.MethodPost, "/api/login", body, "")
	assertError(t, rec, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Too many requests")

	// Movie routes have their own budget.
	if rec := env.do(t, http.MethodGet, "/api/movies/titles", "", env.token); rec.Code != http.StatusOK {
		t.Errorf("titles status = %d, want 200", rec.Code)
	}
}

func TestRouter_Observability(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	env.do(t, http.MethodGet, "/api/health/live", "", "")
	rec := env.do(t, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Error("api_requests_total missing from exposition")
	}
}
