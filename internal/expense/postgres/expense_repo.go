// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

// Package postgres implements the expense repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/spendlog/spendlog/internal/domain"
	"github.com/spendlog/spendlog/internal/expense"
)

// querier is the subset of pgxpool.Pool used by repositories. It is
// satisfied by both *pgxpool.Pool and pgxmock pools in tests.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ExpenseRepository implements expense.Repository using PostgreSQL.
type ExpenseRepository struct {
	pool querier
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool querier) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create stores a new expense owned by the user.
func (r *ExpenseRepository) Create(ctx context.Context, userID int64, exp *domain.NewExpense) (*domain.Expense, error) {
	var (
		id        int64
		createdAt time.Time
	)
	err := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (user_id, description, amount, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`,
		userID,
		exp.Description.String(),
		exp.Amount.Int64(),
		exp.Category.String(),
	).Scan(&id, &createdAt)
	if err != nil {
		return nil, oops.Code("EXPENSE_INSERT_FAILED").
			With("operation", "insert expense").
			With("user_id", userID).
			Wrap(err)
	}

	return &domain.Expense{
		ID:          id,
		Description: exp.Description,
		Amount:      exp.Amount,
		Category:    exp.Category,
		CreatedAt:   createdAt,
	}, nil
}

// List returns up to limit of the user's expenses, newest first, optionally
// filtered by a case-insensitive search over description, category, and the
// amount's decimal text.
func (r *ExpenseRepository) List(ctx context.Context, userID int64, search string, limit int) ([]domain.Expense, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if search != "" {
		pattern := "%" + search + "%"
		rows, err = r.pool.Query(ctx, `
			SELECT id, description, amount, category, created_at
			FROM expenses
			WHERE user_id = $1
			  AND (
				description ILIKE $2
				OR category ILIKE $2
				OR amount::text LIKE $2
			  )
			ORDER BY created_at DESC
			LIMIT $3
		`, userID, pattern, limit)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT id, description, amount, category, created_at
			FROM expenses
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		`, userID, limit)
	}
	if err != nil {
		return nil, oops.Code("EXPENSE_QUERY_FAILED").
			With("operation", "query expenses").
			With("user_id", userID).
			Wrap(err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		exp, scanErr := scanExpense(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		expenses = append(expenses, *exp)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("EXPENSE_QUERY_FAILED").
			With("operation", "iterate expense rows").
			With("user_id", userID).
			Wrap(err)
	}
	return expenses, nil
}

// Update patches the user's expense, keeping stored values for nil fields.
func (r *ExpenseRepository) Update(ctx context.Context, userID, expenseID int64, description *domain.Description, amount *domain.Amount) (*domain.Expense, error) {
	var descValue *string
	if description != nil {
		s := description.String()
		descValue = &s
	}
	var amountValue *int64
	if amount != nil {
		a := amount.Int64()
		amountValue = &a
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE expenses
		SET description = COALESCE($3, description),
		    amount = COALESCE($4, amount)
		WHERE user_id = $1 AND id = $2
		RETURNING id, description, amount, category, created_at
	`, userID, expenseID, descValue, amountValue)

	exp, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("EXPENSE_NOT_FOUND").
			With("user_id", userID).
			With("expense_id", expenseID).
			Wrap(expense.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("EXPENSE_UPDATE_FAILED").
			With("operation", "update expense").
			With("user_id", userID).
			With("expense_id", expenseID).
			Wrap(err)
	}
	return exp, nil
}

// Delete removes the user's expense. Zero rows affected means the record
// does not exist or is owned by someone else.
func (r *ExpenseRepository) Delete(ctx context.Context, userID, expenseID int64) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM expenses
		WHERE user_id = $1 AND id = $2
	`, userID, expenseID)
	if err != nil {
		return oops.Code("EXPENSE_DELETE_FAILED").
			With("operation", "delete expense").
			With("user_id", userID).
			With("expense_id", expenseID).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("EXPENSE_NOT_FOUND").
			With("user_id", userID).
			With("expense_id", expenseID).
			Wrap(expense.ErrNotFound)
	}
	return nil
}

// scanExpense scans a single row, re-validating the stored fields through
// the domain constructors so no raw value escapes the store layer.
// Callers are responsible for handling pgx.ErrNoRows.
func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		id          int64
		description string
		amount      int64
		category    string
		createdAt   time.Time
	)

	if err := row.Scan(&id, &description, &amount, &category, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("EXPENSE_SCAN_FAILED").
			With("operation", "scan expense").
			Wrap(err)
	}

	desc, err := domain.NewDescription(description)
	if err != nil {
		return nil, oops.Code("EXPENSE_CORRUPT_ROW").
			With("operation", "validate stored description").
			With("id", id).
			Wrap(err)
	}
	amt, err := domain.NewAmount(amount)
	if err != nil {
		return nil, oops.Code("EXPENSE_CORRUPT_ROW").
			With("operation", "validate stored amount").
			With("id", id).
			Wrap(err)
	}
	cat, err := domain.NewCategory(category)
	if err != nil {
		return nil, oops.Code("EXPENSE_CORRUPT_ROW").
			With("operation", "validate stored category").
			With("id", id).
			Wrap(err)
	}

	return &domain.Expense{
		ID:          id,
		Description: desc,
		Amount:      amt,
		Category:    cat,
		CreatedAt:   createdAt,
	}, nil
}

// Compile-time interface check.
var _ expense.Repository = (*ExpenseRepository)(nil)
