// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/metrics"
)

// User is a stored account.
type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	CreatedAt      time.Time
	LastLoginAt    *time.Time
}

const userColumns = `id, username, email, hashed_password, created_at, last_login_at`

// GetUserByUsername returns the user with the exact username, or
// ErrUserNotFound.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return db.getUser(ctx, "get_user_by_username", `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

// GetUserByEmail returns the user with the exact email, or ErrUserNotFound.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return db.getUser(ctx, "get_user_by_email", `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (db *DB) getUser(ctx context.Context, op, query string, arg string) (*User, error) {
	start := time.Now()
	u, err := scanUser(db.conn.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery(op, "users", time.Since(start), nil)
		return nil, ErrUserNotFound
	}
	metrics.RecordDBQuery(op, "users", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u         User
		createdAt string
		lastLogin sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &createdAt, &lastLogin); err != nil {
		return nil, err
	}
	u.CreatedAt = parseTime(createdAt)
	if lastLogin.Valid {
		t := parseTime(lastLogin.String)
		u.LastLoginAt = &t
	}
	return &u, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CreateUser inserts a new account. A UNIQUE violation returns
// ErrDuplicateUsername or ErrDuplicateEmail, both of which wrap
// ErrDuplicateUser.
func (db *DB) CreateUser(ctx context.Context, username, email, hashedPassword string) (*User, error) {
	start := time.Now()
	now := time.Now().UTC()
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (username, email, hashed_password, created_at) VALUES (?, ?, ?, ?)`,
		username, email, hashedPassword, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		err = classifyInsertError(err)
		if errors.Is(err, ErrDuplicateUser) {
			metrics.RecordDBQuery("create_user", "users", time.Since(start), nil)
			return nil, err
		}
		metrics.RecordDBQuery("create_user", "users", time.Since(start), err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	metrics.RecordDBQuery("create_user", "users", time.Since(start), nil)

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create user: last insert id: %w", err)
	}
	return &User{
		ID:             id,
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
	}, nil
}

// RecordLogin stamps the user's last successful login.
func (db *DB) RecordLogin(ctx context.Context, username string, at time.Time) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE username = ?`,
		at.UTC().Format(time.RFC3339Nano), username,
	)
	metrics.RecordDBQuery("record_login", "users", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CountUsers returns the number of registered accounts.
func (db *DB) CountUsers(ctx context.Context) (int, error) {
	start := time.Now()
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	metrics.RecordDBQuery("count_users", "users", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
