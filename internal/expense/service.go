// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

// Package expense provides the expense business operations, always scoped
// by the owning user's id.
package expense

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/oops"

	"github.com/spendlog/spendlog/internal/domain"
)

// ErrNotFound is returned when an expense does not exist or is not owned
// by the caller. Ownership misses are deliberately indistinguishable from
// missing records.
var ErrNotFound = errors.New("expense not found")

// List caps. Searches return fewer rows than plain listings.
const (
	ListLimit   = 20
	SearchLimit = 10
)

// Repository manages expense persistence. Every operation is scoped by the
// owning user id; the store's foreign key ties each expense to exactly one
// user.
type Repository interface {
	// Create stores a new expense for the user and returns the persisted
	// record with its store-assigned id and creation timestamp.
	Create(ctx context.Context, userID int64, exp *domain.NewExpense) (*domain.Expense, error)

	// List returns up to limit of the user's expenses, newest first.
	// A non-empty search term filters case-insensitively over description,
	// category, and the amount's decimal text.
	List(ctx context.Context, userID int64, search string, limit int) ([]domain.Expense, error)

	// Update patches description and/or amount of the user's expense.
	// Nil fields keep their stored values. Returns ErrNotFound when the
	// expense does not exist or belongs to someone else.
	Update(ctx context.Context, userID, expenseID int64, description *domain.Description, amount *domain.Amount) (*domain.Expense, error)

	// Delete removes the user's expense. Returns ErrNotFound when the
	// expense does not exist or belongs to someone else.
	Delete(ctx context.Context, userID, expenseID int64) error
}

// Service validates raw expense input and delegates to the repository.
type Service struct {
	expenses Repository
}

// NewService creates a new Service.
func NewService(expenses Repository) *Service {
	return &Service{expenses: expenses}
}

// Create validates the raw fields and stores a new expense for the user.
func (s *Service) Create(ctx context.Context, userID int64, description string, amount int64, category string) (*domain.Expense, error) {
	desc, err := domain.NewDescription(description)
	if err != nil {
		return nil, err
	}
	amt, err := domain.NewAmount(amount)
	if err != nil {
		return nil, err
	}
	cat, err := domain.NewCategory(category)
	if err != nil {
		return nil, err
	}

	exp, err := s.expenses.Create(ctx, userID, &domain.NewExpense{
		Description: desc,
		Amount:      amt,
		Category:    cat,
	})
	if err != nil {
		return nil, oops.Code("EXPENSE_CREATE_FAILED").
			With("operation", "insert expense").
			With("user_id", userID).
			Wrap(err)
	}
	return exp, nil
}

// List returns the user's expenses, newest first. An empty or
// whitespace-only search term lists without filtering.
func (s *Service) List(ctx context.Context, userID int64, search string) ([]domain.Expense, error) {
	search = strings.TrimSpace(search)
	limit := ListLimit
	if search != "" {
		limit = SearchLimit
	}

	expenses, err := s.expenses.List(ctx, userID, search, limit)
	if err != nil {
		return nil, oops.Code("EXPENSE_LIST_FAILED").
			With("operation", "list expenses").
			With("user_id", userID).
			Wrap(err)
	}
	return expenses, nil
}

// Update validates whichever fields are present and patches the user's
// expense. A patch with no fields returns the stored record unchanged.
func (s *Service) Update(ctx context.Context, userID, expenseID int64, description *string, amount *int64) (*domain.Expense, error) {
	var desc *domain.Description
	if description != nil {
		d, err := domain.NewDescription(*description)
		if err != nil {
			return nil, err
		}
		desc = &d
	}
	var amt *domain.Amount
	if amount != nil {
		a, err := domain.NewAmount(*amount)
		if err != nil {
			return nil, err
		}
		amt = &a
	}

	exp, err := s.expenses.Update(ctx, userID, expenseID, desc, amt)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err //nolint:wrapcheck // sentinel must stay matchable
		}
		return nil, oops.Code("EXPENSE_UPDATE_FAILED").
			With("operation", "update expense").
			With("user_id", userID).
			With("expense_id", expenseID).
			Wrap(err)
	}
	return exp, nil
}

// Delete removes the user's expense.
func (s *Service) Delete(ctx context.Context, userID, expenseID int64) error {
	err := s.expenses.Delete(ctx, userID, expenseID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err //nolint:wrapcheck // sentinel must stay matchable
		}
		return oops.Code("EXPENSE_DELETE_FAILED").
			With("operation", "delete expense").
			With("user_id", userID).
			With("expense_id", expenseID).
			Wrap(err)
	}
	return nil
}
