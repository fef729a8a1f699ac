// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

// Package api exposes the HTTP surface of spendlog: routing, DTO
// conversion, the auth gate, and the single mapping from internal failures
// to the external error taxonomy.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/expense"
)

// Handler carries the services behind the HTTP surface.
type Handler struct {
	auth     *auth.Service
	expenses *expense.Service
	logger   *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(authSvc *auth.Service, expenses *expense.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		auth:     authSvc,
		expenses: expenses,
		logger:   logger,
	}
}

// decode reads a JSON request body. A syntactically invalid body is a
// BadRequest-class failure before any field validation runs.
func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// Register handles POST /users.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Msg:  "account created successfully",
		User: toUserResponse(user),
	})
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Msg:   "login successful",
		Token: token,
		Type:  "Bearer",
	})
}

// CreateExpense handles POST /expenses.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req createExpenseRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	exp, err := h.expenses.Create(r.Context(), userID, req.Description, req.Amount, req.Category)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, expenseEnvelope{
		Msg:     "expense added successfully",
		Expense: toExpenseResponse(exp),
	})
}

// ListExpenses handles GET /expenses?search=.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	expenses, err := h.expenses.List(r.Context(), userID, r.URL.Query().Get("search"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toExpenseListResponse(expenses))
}

// UpdateExpense handles PATCH /expenses/{id}.
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	expenseID, err := expenseIDParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req updateExpenseRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	exp, err := h.expenses.Update(r.Context(), userID, expenseID, req.Description, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, expenseEnvelope{
		Msg:     "expense updated successfully",
		Expense: toExpenseResponse(exp),
	})
}

// DeleteExpense handles DELETE /expenses/{id}.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	expenseID, err := expenseIDParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.expenses.Delete(r.Context(), userID, expenseID); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// expenseIDParam parses the {id} route parameter. An unparseable id cannot
// match any record, so it reports the same NotFound as a missing row.
func expenseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, expense.ErrNotFound
	}
	return id, nil
}
