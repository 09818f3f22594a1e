// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequireAuth(t *testing.T) {
	t.Parallel()
	m := testManager(t)
	valid, err := m.GenerateToken("alice")
	if err != nil {
		t.Fatal(err)
	}

	handler := NewMiddleware(m, nil).RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, _ := UsernameFromContext(r.Context())
		_, _ = w.Write([]byte(username))
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid", "Bearer " + valid, http.StatusOK, "alice"},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, "alice"},
		{"missing header", "", http.StatusUnauthorized, UnauthorizedDetail},
		{"basic scheme", "Basic YWxpY2U6cHc=", http.StatusUnauthorized, UnauthorizedDetail},
		{"no token", "Bearer ", http.StatusUnauthorized, UnauthorizedDetail},
		{"tampered", "Bearer " + valid + "x", http.StatusUnauthorized, UnauthorizedDetail},
		{"raw token without scheme", valid, http.StatusUnauthorized, UnauthorizedDetail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/api/movies/trending", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
			if tt.wantStatus == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Errorf("WWW-Authenticate = %q, want Bearer", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRequireAuth_CustomErrorWriter(t *testing.T) {
	t.Parallel()
	var gotStatus int
	var gotDetail string
	mw := NewMiddleware(testManager(t), func(w http.ResponseWriter, _ *http.Request, status int, detail string) {
		gotStatus, gotDetail = status, detail
		w.WriteHeader(status)
	})

	called := false
	h := mw.RequireAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if called {
		t.Error("next handler ran without a token")
	}
	if gotStatus != http.StatusUnauthorized || gotDetail != UnauthorizedDetail {
		t.Errorf("writer got (%d, %q)", gotStatus, gotDetail)
	}
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("WWW-Authenticate header not set before custom writer")
	}
}

func TestUsernameFromContext(t *testing.T) {
	t.Parallel()
	if _, ok := UsernameFromContext(context.Background()); ok {
		t.Error("empty context reported a username")
	}
	ctx := context.WithValue(context.Background(), UsernameContextKey, "bob")
	if u, ok := UsernameFromContext(ctx); !ok || u != "bob" {
		t.Errorf("UsernameFromContext() = (%q, %v)", u, ok)
	}
}
