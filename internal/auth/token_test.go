// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret")
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := NewTokenService("")
		assert.Error(t, err)
	})

	t.Run("accepts non-empty secret", func(t *testing.T) {
		svc, err := NewTokenService("s3cret")
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestTokenService(t)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue(42)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, issued.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issued.Add(TokenTTL).Unix(), claims.ExpiresAt.Unix())

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestVerifyRejections(t *testing.T) {
	svc := newTestTokenService(t)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue(42)
	require.NoError(t, err)

	t.Run("expired token", func(t *testing.T) {
		late, err := NewTokenService("test-secret")
		require.NoError(t, err)
		late.now = func() time.Time { return issued.Add(TokenTTL + time.Second) }

		_, err = late.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("still valid just before expiry", func(t *testing.T) {
		almost, err := NewTokenService("test-secret")
		require.NoError(t, err)
		almost.now = func() time.Time { return issued.Add(TokenTTL - time.Second) }

		_, err = almost.Verify(token)
		assert.NoError(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewTokenService("other-secret")
		require.NoError(t, err)
		other.now = svc.now

		_, err = other.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("unsigned token rejected", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(issued.Add(TokenTTL)),
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Verify(unsigned)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("token without expiry rejected", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: "42"}
		noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.Verify(noExpiry)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("token without subject rejected", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issued.Add(TokenTTL)),
		}
		noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.Verify(noSubject)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestClaimsUserID(t *testing.T) {
	t.Run("numeric subject", func(t *testing.T) {
		id, err := Claims{Subject: "7"}.UserID()
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
	})

	t.Run("non-numeric subject", func(t *testing.T) {
		_, err := Claims{Subject: "alice"}.UserID()
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestAuthenticate(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue(42)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantErr bool
	}{
		{name: "valid bearer token", header: "Bearer " + token},
		{name: "missing header", header: "", wantErr: true},
		{name: "missing scheme", header: token, wantErr: true},
		{name: "wrong scheme", header: "Basic " + token, wantErr: true},
		{name: "lowercase scheme", header: "bearer " + token, wantErr: true},
		{name: "scheme with garbage token", header: "Bearer junk", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			if tt.header != "" {
				headers.Set("Authorization", tt.header)
			}

			claims, err := svc.Authenticate(headers)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTokenInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "42", claims.Subject)
		})
	}
}
