// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package domain

import "time"

// NewExpense is a creation candidate. The id and creation timestamp are
// assigned by the store; the owning user is supplied separately by the
// caller's verified identity.
type NewExpense struct {
	Description Description
	Amount      Amount
	Category    Category
}

// Expense is a persisted expense record, owned by exactly one user via a
// foreign key at the store. The owner is deliberately not embedded; every
// store operation is scoped by the caller's user id instead.
type Expense struct {
	ID          int64
	Description Description
	Amount      Amount
	Category    Category
	CreatedAt   time.Time
}
