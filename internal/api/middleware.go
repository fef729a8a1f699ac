// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/observability"
)

// requireAuth is the auth gate for protected routes. It extracts and
// verifies the bearer token and attaches the claims to the request context.
// Missing header, missing Bearer prefix, and verification failure collapse
// to the same 401 body.
func requireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := tokens.Authenticate(r.Header)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
		})
	}
}

// requestLogger logs each request with method, route pattern, status, and
// duration, and records the request counter metric when metrics are wired.
func requestLogger(logger *slog.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			logger.Info("request",
				"method", r.Method,
				"route", route,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
			if metrics != nil {
				metrics.RecordRequest(r.Method, route, ww.Status())
			}
		})
	}
}
