// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/domain"
	"github.com/spendlog/spendlog/internal/expense"

	"github.com/spendlog/spendlog/pkg/errutil"
)

// errorBody is the uniform error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// classify maps every internal failure to exactly one external status and
// message. Validation failures and store conflicts recover into their
// specific kinds; anything unclassified degrades to 500 without leaking
// implementation detail.
func classify(err error) (int, string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Kind.Message()
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrTokenInvalid):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, auth.ErrUsernameTaken):
		return http.StatusConflict, "username already exists"
	case errors.Is(err, expense.ErrNotFound):
		return http.StatusNotFound, "expense not found"
	case errors.Is(err, auth.ErrNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeError renders err through the taxonomy. Internal failures are logged
// with their oops context; expected per-request failures are not.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, msg := classify(err)
	if status == http.StatusInternalServerError {
		errutil.LogError(h.logger, "request failed", err)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

// writeJSON renders v as a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response body", "error", err)
	}
}
