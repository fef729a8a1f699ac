// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/observability"
)

// NewRouter assembles the HTTP surface. Registration and login are public;
// everything under /expenses sits behind the auth gate. Metrics may be nil
// (tests run without a registry).
func NewRouter(h *Handler, tokens *auth.TokenService, logger *slog.Logger, metrics *observability.Metrics) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger, metrics))
	r.Use(chimiddleware.Recoverer)

	r.Post("/users", h.Register)
	r.Post("/login", h.Login)

	r.Route("/expenses", func(r chi.Router) {
		r.Use(requireAuth(tokens))
		r.Post("/", h.CreateExpense)
		r.Get("/", h.ListExpenses)
		r.Patch("/{id}", h.UpdateExpense)
		r.Delete("/{id}", h.DeleteExpense)
	})

	return r
}
