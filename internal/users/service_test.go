// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package users

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
)

// fakeStore is an in-memory Store that counts calls and can inject failures.
type fakeStore struct {
	mu        sync.Mutex
	byName    map[string]*database.User
	calls     int
	failGet   error
	failWrite error
	// raceWith makes CreateUser report a conflict as if another request won.
	raceWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{byName: make(map[string]*database.User)}
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*database.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failGet != nil {
		return nil, f.failGet
	}
	if u, ok := f.byName[username]; ok {
		return u, nil
	}
	return nil, database.ErrUserNotFound
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*database.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, u := range f.byName {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, database.ErrUserNotFound
}

func (f *fakeStore) CreateUser(_ context.Context, username, email, hashed string) (*database.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.raceWith != nil {
		return nil, f.raceWith
	}
	if f.failWrite != nil {
		return nil, f.failWrite
	}
	u := &database.User{ID: int64(len(f.byName) + 1), Username: username, Email: email, HashedPassword: hashed}
	f.byName[username] = u
	return u, nil
}

func (f *fakeStore) RecordLogin(_ context.Context, username string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byName[username]; ok {
		u.LastLoginAt = &at
		return nil
	}
	return database.ErrUserNotFound
}

func (f *fakeStore) CountUsers(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byName), nil
}

func testService(t *testing.T, store Store) (*Service, *auth.JWTManager) {
	t.Helper()
	jwtManager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: "users-test-secret-users-test-secret"})
	if err != nil {
		t.Fatal(err)
	}
	svc, err := NewService(store, jwtManager)
	if err != nil {
		t.Fatal(err)
	}
	return svc, jwtManager
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"username too short", "ab", "secret1", ErrUsernameTooShort},
		{"empty username", "", "secret1", ErrUsernameTooShort},
		{"password too short", "alice", "12345", ErrPasswordTooShort},
		{"both short reports username", "ab", "1", ErrUsernameTooShort},
		{"multibyte username counts characters", "日本", "secret1", ErrUsernameTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newFakeStore()
			svc, _ := testService(t, store)

			err := svc.Register(context.Background(), tt.username, "a@example.com", tt.password)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Register() err = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v is not an input error", err)
			}
			if store.calls != 0 {
				t.Errorf("store called %d times for invalid input", store.calls)
			}
		})
	}
}

func TestRegister_Boundaries(t *testing.T) {
	t.Parallel()
	svc, _ := testService(t, newFakeStore())
	if err := svc.Register(context.Background(), "abc", "abc@example.com", "123456"); err != nil {
		t.Errorf("Register() at minimum lengths err = %v", err)
	}
	if err := svc.Register(context.Background(), "日本語", "jp@example.com", "pässwö"); err != nil {
		t.Errorf("Register() with three multibyte characters err = %v", err)
	}
}

func TestRegister_Conflicts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newFakeStore()
	svc, _ := testService(t, store)
	if err := svc.Register(ctx, "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		username string
		email    string
		want     error
	}{
		{"username taken", "alice", "new@example.com", ErrUsernameTaken},
		{"email taken", "bob", "alice@example.com", ErrEmailTaken},
		{"both taken reports username", "alice", "alice@example.com", ErrUsernameTaken},
	}
	for _, tt := range tests {
		err := svc.Register(ctx, tt.username, tt.email, "secret1")
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
		if !errors.Is(err, ErrConflict) {
			t.Errorf("%s: err = %v is not a conflict", tt.name, err)
		}
		if errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: conflict also matched ErrInvalidInput", tt.name)
		}
	}
}

func TestRegister_InsertRace(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		race error
		want error
	}{
		{"username", database.ErrDuplicateUsername, ErrUsernameTaken},
		{"email", database.ErrDuplicateEmail, ErrEmailTaken},
		{"unknown column", database.ErrDuplicateUser, ErrUsernameTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newFakeStore()
			store.raceWith = tt.race
			svc, _ := testService(t, store)
			if err := svc.Register(context.Background(), "alice", "a@example.com", "secret1"); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegister_StoreFailure(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.failWrite = errors.New("disk full")
	svc, _ := testService(t, store)

	err := svc.Register(context.Background(), "alice", "a@example.com", "secret1")
	if !errors.Is(err, ErrCreateFailed) {
		t.Fatalf("err = %v, want ErrCreateFailed", err)
	}
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidInput) {
		t.Errorf("persistence failure classified as client error: %v", err)
	}
}

func TestRegister_StoresHashNotPassword(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	svc, _ := testService(t, store)
	if err := svc.Register(context.Background(), "alice", "a@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	u := store.byName["alice"]
	if u.HashedPassword == "secret1" || !auth.VerifyPassword("secret1", u.HashedPassword) {
		t.Errorf("stored hash %q does not verify", u.HashedPassword)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newFakeStore()
	svc, jwtManager := testService(t, store)
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	if err := svc.Register(ctx, "alice", "alice@example.com", "Test1234"); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Login(ctx, "alice", "Test1234")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.TokenType != "bearer" || res.Username != "alice" {
		t.Errorf("Login() = %+v", res)
	}
	claims, err := jwtManager.ValidateToken(res.AccessToken)
	if err != nil || claims.Username() != "alice" {
		t.Errorf("token claims = (%v, %v)", claims, err)
	}
	if got := store.byName["alice"].LastLoginAt; got == nil || !got.Equal(fixed) {
		t.Errorf("LastLoginAt = %v, want %v", got, fixed)
	}

	for _, tc := range []struct{ username, password string }{
		{"alice", "wrong-password"},
		{"alice", ""},
		{"nobody", "Test1234"},
		{"Alice", "Test1234"},
	} {
		if _, err := svc.Login(ctx, tc.username, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q) err = %v, want ErrInvalidCredentials", tc.username, tc.password, err)
		}
	}
}

func TestLogin_StoreFailureIsInternal(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.failGet = errors.New("database is locked")
	svc, _ := testService(t, store)
	_, err := svc.Login(context.Background(), "alice", "Test1234")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want internal error", err)
	}
}

func TestService_WithSQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := database.New(&config.DatabaseConfig{Path: database.MemoryPath})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	svc, _ := testService(t, db)

	if err := svc.Register(ctx, "testuser", "test@test.com", "Test1234"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := svc.Register(ctx, "testuser", "other@test.com", "Test1234"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate Register() err = %v", err)
	}
	if err := svc.Register(ctx, "other", "test@test.com", "Test1234"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email Register() err = %v", err)
	}
	if _, err := svc.Login(ctx, "testuser", "Test1234"); err != nil {
		t.Errorf("Login() error = %v", err)
	}
	if err := svc.SyncUserCount(ctx); err != nil {
		t.Errorf("SyncUserCount() error = %v", err)
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()
	tests := map[error]string{
		ErrUsernameTooShort:   "Username must be at least 3 characters",
		ErrPasswordTooShort:   "Password must be at least 6 characters",
		ErrUsernameTaken:      "Username already exists",
		ErrEmailTaken:         "Email already registered",
		ErrInvalidCredentials: "Invalid username or password",
		ErrCreateFailed:       "Failed to create user",
	}
	for err, want := range tests {
		if err.Error() != want {
			t.Errorf("message = %q, want %q", err.Error(), want)
		}
	}
}
