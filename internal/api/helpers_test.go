// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/poster"
	"github.com/tomtom215/cinematch/internal/users"
)

const testPosterPath = "/poster.jpg"

// fakeCatalog serves canned listings and records the arguments it saw.
type fakeCatalog struct {
	mu        sync.Mutex
	trending  []catalog.Movie
	recommend map[string][]catalog.Movie
	titles    []string
	calls     []string
}

func newFakeCatalog() *fakeCatalog {
	mk := func(title string, pop float64) catalog.Movie {
		return catalog.NewMovie(catalog.Row{Title: title, Overview: title + " overview", Popularity: fmt.Sprint(pop)})
	}
	return &fakeCatalog{
		trending: []catalog.Movie{mk("Avatar", 150), mk("Titanic", 100), mk("Aliens", 67)},
		recommend: map[string][]catalog.Movie{
			"Avatar":   {mk("Aliens", 67), mk("Guardians of the Galaxy", 481)},
			"Face/Off": {mk("Con Air", 40)},
		},
		titles: []string{"Avatar", "Titanic", "Aliens"},
	}
}

func (f *fakeCatalog) record(format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeCatalog) lastCall() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeCatalog) Recommend(title string, n int) []catalog.Movie {
	f.record("recommend %s %d", title, n)
	recs := f.recommend[title]
	if len(recs) > n {
		recs = recs[:n]
	}
	return append([]catalog.Movie(nil), recs...)
}

func (f *fakeCatalog) Trending(page, perPage int) []catalog.Movie {
	f.record("trending %d %d", page, perPage)
	lo := (page - 1) * perPage
	if lo >= len(f.trending) {
		return []catalog.Movie{}
	}
	hi := min(lo+perPage, len(f.trending))
	return append([]catalog.Movie(nil), f.trending[lo:hi]...)
}

func (f *fakeCatalog) Search(query string, limit int) []catalog.Movie {
	f.record("search %s %d", query, limit)
	var out []catalog.Movie
	for _, m := range f.trending {
		if strings.Contains(strings.ToLower(m.Title), strings.ToLower(query)) {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeCatalog) AllTitles(limit int) []string {
	f.record("titles %d", limit)
	return f.titles
}

func (f *fakeCatalog) Stats() catalog.Stats {
	return catalog.Stats{Movies: len(f.trending), DistinctTitles: len(f.titles)}
}

// failingAccounts returns err from every call.
type failingAccounts struct{ err error }

func (a failingAccounts) Register(context.Context, string, string, string) error { return a.err }

func (a failingAccounts) Login(context.Context, string, string) (*users.LoginResult, error) {
	return nil, a.err
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

// tmdbSearchFetcher answers every search with one poster.
func tmdbSearchFetcher() poster.Fetcher {
	return poster.FetcherFunc(func(ctx context.Context, rawURL string) (*poster.Response, error) {
		return &poster.Response{
			StatusCode:  http.StatusOK,
			ContentType: "application/json",
			Body:        []byte(`{"results":[{"poster_path":"` + testPosterPath + `"}]}`),
		}, nil
	})
}

// imageFetcher returns a small PNG.
func imageFetcher() poster.Fetcher {
	return poster.FetcherFunc(func(ctx context.Context, rawURL string) (*poster.Response, error) {
		return &poster.Response{StatusCode: http.StatusOK, ContentType: "image/png", Body: []byte("\x89PNG")}, nil
	})
}

type envOptions struct {
	accounts Accounts
	images   poster.Fetcher
	db       Pinger
	enrich   bool
	mutate   func(*config.Config)
}

type testEnv struct {
	cfg     *config.Config
	catalog *fakeCatalog
	handler *Handler
	router  http.Handler
	jwt     *auth.JWTManager
	token   string
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), "<html>index</html>")
	writeFile(t, filepath.Join(dir, "dashboard.html"), "<html>dashboard</html>")
	writeFile(t, filepath.Join(dir, "css", "app.css"), "body{}")

	return &config.Config{
		API: config.APIConfig{
			DefaultPerPage:   20,
			MaxPerPage:       50,
			DefaultRecommend: 12,
			MaxRecommend:     30,
			SearchLimit:      20,
			TitlesLimit:      50000,
		},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret-with-enough-entropy-0123456789",
			SessionTimeout:    time.Hour,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
			AuthRateLimitReqs: 20,
		},
		Web: config.WebConfig{FrontendDir: dir},
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

// newTestEnv wires the real router, user service, SQLite store, JWT manager
// and poster components around a fake catalogue.
func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	cfg := testConfig(t)
	if opts.mutate != nil {
		opts.mutate(cfg)
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	db, err := database.New(&config.DatabaseConfig{Path: database.MemoryPath})
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	accounts := opts.accounts
	if accounts == nil {
		svc, err := users.NewService(db, jwtManager)
		if err != nil {
			t.Fatalf("users.NewService: %v", err)
		}
		accounts = svc
	}
	var dbPinger Pinger = db
	if opts.db != nil {
		dbPinger = opts.db
	}
	images := opts.images
	if images == nil {
		images = imageFetcher()
	}

	cat := newFakeCatalog()
	lookup := poster.NewLookup(poster.LookupConfig{APIKey: "test-key", Enrich: opts.enrich}, tmdbSearchFetcher(), cache.NewMemory())
	h := NewHandler(HandlerDeps{
		Config:   cfg,
		Catalog:  cat,
		Accounts: accounts,
		Posters:  lookup,
		Images:   poster.NewProxy(images, ""),
		DB:       dbPinger,
		Version:  "test",
	})

	token, err := jwtManager.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	return &testEnv{
		cfg:     cfg,
		catalog: cat,
		handler: h,
		router:  NewRouter(cfg, h, jwtManager).SetupChi(),
		jwt:     jwtManager,
		token:   token,
	}
}

// do sends a request through the router. A non-empty token is sent as a
// bearer credential.
func (e *testEnv) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code, detail string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	got := decodeBody[ErrorResponse](t, rec)
	if got.Code != code {
		t.Errorf("code = %q, want %q", got.Code, code)
	}
	if detail != "" && got.Detail != detail {
		t.Errorf("detail = %q, want %q", got.Detail, detail)
	}
	if got.RequestID == "" {
		t.Error("request_id missing from error body")
	}
}
