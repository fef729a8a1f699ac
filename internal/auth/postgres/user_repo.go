// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

// Package postgres implements auth repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/domain"
)

// querier is the subset of pgxpool.Pool used by repositories. It is
// satisfied by both *pgxpool.Pool and pgxmock pools in tests.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements auth.UserRepository using PostgreSQL.
type UserRepository struct {
	pool querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool querier) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create stores a new user. The store's uniqueness constraint on username
// is the source of truth for conflicts; a violation surfaces as
// auth.ErrUsernameTaken.
func (r *UserRepository) Create(ctx context.Context, user *domain.NewUser) (*domain.User, error) {
	var (
		id        int64
		createdAt time.Time
	)
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`,
		user.Username.String(),
		user.Email.String(),
		user.PasswordHash,
	).Scan(&id, &createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, oops.Code("USER_ALREADY_EXISTS").
				With("username", user.Username.String()).
				Wrap(auth.ErrUsernameTaken)
		}
		return nil, oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("username", user.Username.String()).
			Wrap(err)
	}

	return &domain.User{
		ID:           id,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    createdAt,
	}, nil
}

// GetByUsername retrieves a user by normalized username.
func (r *UserRepository) GetByUsername(ctx context.Context, username domain.Username) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = $1
	`, username.String())

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("username", username.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_USERNAME_FAILED").
			With("operation", "get user by username").
			With("username", username.String()).
			Wrap(err)
	}
	return user, nil
}

// scanUser scans a single row into a User, re-validating the stored fields
// through the domain constructors so no raw value escapes the store layer.
// Callers are responsible for handling pgx.ErrNoRows.
func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		id           int64
		username     string
		email        string
		passwordHash string
		createdAt    time.Time
	)

	if err := row.Scan(&id, &username, &email, &passwordHash, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("USER_SCAN_FAILED").
			With("operation", "scan user").
			Wrap(err)
	}

	uname, err := domain.NewUsername(username)
	if err != nil {
		return nil, oops.Code("USER_CORRUPT_ROW").
			With("operation", "validate stored username").
			With("id", id).
			Wrap(err)
	}
	addr, err := domain.NewEmail(email)
	if err != nil {
		return nil, oops.Code("USER_CORRUPT_ROW").
			With("operation", "validate stored email").
			With("id", id).
			Wrap(err)
	}

	return &domain.User{
		ID:           id,
		Username:     uname,
		Email:        addr,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}, nil
}

// Compile-time interface check.
var _ auth.UserRepository = (*UserRepository)(nil)
