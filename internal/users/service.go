// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package users

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/tomtom215/cinematch/internal/auth"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// Length rules, counted in characters.
const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// TokenType is the OAuth2 token type returned at login.
const TokenType = "bearer"

// Store is the subset of the user database the service needs.
type Store interface {
	GetUserByUsername(ctx context.Context, username string) (*database.User, error)
	GetUserByEmail(ctx context.Context, email string) (*database.User, error)
	CreateUser(ctx context.Context, username, email, hashedPassword string) (*database.User, error)
	RecordLogin(ctx context.Context, username string, at time.Time) error
	CountUsers(ctx context.Context) (int, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateToken(username string) (string, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

// Service registers and authenticates users.
type Service struct {
	store    Store
	tokens   TokenIssuer
	security *logging.SecurityLogger

	hashPassword   func(string) (string, error)
	verifyPassword func(password, hash string) bool
	now            func() time.Time

	// dummyHash is compared against when the user does not exist so unknown
	// usernames cost the same as wrong passwords.
	dummyHash string
}

// NewService creates a Service.
func NewService(store Store, tokens TokenIssuer) (*Service, error) {
	dummy, err := auth.HashPassword("cinematch-timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Service{
		store:          store,
		tokens:         tokens,
		security:       logging.NewSecurityLogger(),
		hashPassword:   auth.HashPassword,
		verifyPassword: auth.VerifyPassword,
		now:            time.Now,
		dummyHash:      dummy,
	}, nil
}

// Register validates and stores a new account.
func (s *Service) Register(ctx context.Context, username, email, password string) error {
	err := s.register(ctx, username, email, password)
	metrics.RecordAuthEvent("register", err == nil)
	if err != nil {
		s.security.LogRegisterFailure(ctx, username, reason(err))
		return err
	}
	metrics.RegisteredUsers.Inc()
	s.security.LogRegister(ctx, username, email)
	return nil
}

func (s *Service) register(ctx context.Context, username, email, password string) error {
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return ErrUsernameTooShort
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, database.ErrUserNotFound) {
		return fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, database.ErrUserNotFound) {
		return fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	hashed, err := s.hashPassword(password)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	// A concurrent registration can still win between the checks and the
	// insert; the UNIQUE constraints decide.
	_, err = s.store.CreateUser(ctx, username, email, hashed)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrDuplicateEmail):
		return ErrEmailTaken
	case errors.Is(err, database.ErrDuplicateUser):
		return ErrUsernameTaken
	default:
		return fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
}

// Login checks credentials and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	res, err := s.login(ctx, username, password)
	metrics.RecordAuthEvent("login", err == nil)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.security.LogLoginFailure(ctx, username)
		}
		return nil, err
	}
	s.security.LogLogin(ctx, res.Username)
	return res, nil
}

func (s *Service) login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, database.ErrUserNotFound) {
		s.verifyPassword(password, s.dummyHash)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !s.verifyPassword(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := s.store.RecordLogin(ctx, user.Username, s.now()); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to record last login")
	}

	return &LoginResult{AccessToken: token, TokenType: TokenType, Username: user.Username}, nil
}

// SyncUserCount sets the registered-users gauge from the store.
func (s *Service) SyncUserCount(ctx context.Context) error {
	n, err := s.store.CountUsers(ctx)
	if err != nil {
		return err
	}
	metrics.RegisteredUsers.Set(float64(n))
	return nil
}

// reason is the log code for a failed registration.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrUsernameTooShort):
		return "username_too_short"
	case errors.Is(err, ErrPasswordTooShort):
		return "password_too_short"
	case errors.Is(err, ErrUsernameTaken):
		return "username_taken"
	case errors.Is(err, ErrEmailTaken):
		return "email_taken"
	default:
		return "internal_error"
	}
}
