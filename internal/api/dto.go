// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package api

import (
	"time"

	"github.com/spendlog/spendlog/internal/domain"
)

// Request payloads. Fields arrive raw; the services construct validated
// domain values from them.

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createExpenseRequest struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Category    string `json:"category"`
}

type updateExpenseRequest struct {
	Description *string `json:"description"`
	Amount      *int64  `json:"amount"`
}

// Response payloads carry only normalized, validated values. There is no
// password field anywhere in the outbound types, so a hash cannot leak by
// construction.

type userResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type expenseResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Category    string `json:"category"`
	CreatedAt   string `json:"created_at"`
}

type registerResponse struct {
	Msg  string       `json:"msg"`
	User userResponse `json:"user"`
}

type loginResponse struct {
	Msg   string `json:"msg"`
	Token string `json:"token"`
	Type  string `json:"type"`
}

type expenseEnvelope struct {
	Msg     string          `json:"msg"`
	Expense expenseResponse `json:"expense"`
}

type expenseListResponse struct {
	Expenses []expenseResponse `json:"expenses"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username.String(),
		Email:     u.Email.String(),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toExpenseResponse(e *domain.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Description: e.Description.String(),
		Amount:      e.Amount.Int64(),
		Category:    e.Category.String(),
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toExpenseListResponse(expenses []domain.Expense) expenseListResponse {
	out := expenseListResponse{Expenses: make([]expenseResponse, 0, len(expenses))}
	for i := range expenses {
		out.Expenses = append(out.Expenses, toExpenseResponse(&expenses[i]))
	}
	return out
}
