// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package auth

import "context"

// claimsKey is the context key for verified token claims.
type claimsKey struct{}

// ContextWithClaims returns a context carrying verified claims. The auth
// gate attaches claims before invoking downstream handlers; no global
// mutable state is involved.
func ContextWithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext retrieves the verified claims attached by the auth
// gate. The second return is false when the request did not pass through
// the gate.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(Claims)
	return claims, ok
}

// UserIDFromContext resolves the caller's user id from context claims.
// Absent or unparseable claims yield ErrTokenInvalid.
func UserIDFromContext(ctx context.Context) (int64, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, ErrTokenInvalid
	}
	return claims.UserID()
}
