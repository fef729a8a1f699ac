// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package auth

import "errors"

// Sentinel errors surfaced by the auth layer. The conversion layer in
// internal/api matches on these with errors.Is to pick a response status.
var (
	// ErrNotFound is returned when a requested user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned when registration hits the store's
	// uniqueness constraint on username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned for every login failure: unknown
	// username, wrong password, or a password that fails validation.
	// Deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrTokenInvalid is returned for every token verification failure:
	// missing or malformed header, expired token, bad signature, or a
	// non-numeric subject. Deliberately indistinguishable to the caller.
	ErrTokenInvalid = errors.New("invalid or expired token")
)
