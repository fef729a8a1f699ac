// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

// Package auth provides authentication primitives for spendlog.
//
// # Credentials
//
// Passwords are hashed with argon2id through the PasswordHasher interface.
// Only the self-describing hash string is ever persisted; verification
// recomputes the digest with the parameters embedded in the stored hash and
// compares in constant time.
//
// # Tokens
//
// The TokenService issues and verifies stateless HS256 bearer tokens whose
// subject is the user's integer id. There is no server-side session or
// revocation list; a token is valid until its fixed one-hour expiry.
//
// # Services
//
// Service coordinates registration and login against a UserRepository.
// Repository implementations receive pre-validated domain types and report
// uniqueness conflicts as ErrUsernameTaken.
package auth
