// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package domain

import "time"

// NewUser is a registration candidate. The id and creation timestamp are
// assigned by the store.
type NewUser struct {
	Username     Username
	Email        Email
	PasswordHash string
}

// User is a persisted account. PasswordHash is the only stored credential
// representation and must never be serialized to clients.
type User struct {
	ID           int64
	Username     Username
	Email        Email
	PasswordHash string
	CreatedAt    time.Time
}
