// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package auth

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// TokenTTL is the fixed validity window of issued tokens. There is no
// refresh mechanism and no revocation list.
const TokenTTL = time.Hour

// bearerPrefix is the required Authorization header scheme.
const bearerPrefix = "Bearer "

// Claims is the verified payload of a bearer token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// UserID parses the subject into a user id. A non-numeric subject can only
// come from a forged or corrupted token, so the failure is ErrTokenInvalid
// rather than an internal error.
func (c Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return id, nil
}

// TokenService issues and verifies stateless HS256 bearer tokens.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a TokenService with the given signing secret.
// An empty secret is a configuration error; callers must treat it as fatal
// at startup.
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, oops.Code("AUTH_MISSING_SECRET").Errorf("token signing secret cannot be empty")
	}
	return &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}, nil
}

// Issue signs a token asserting the given user id, valid for TokenTTL.
func (s *TokenService) Issue(userID int64) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, and expiry. Every failure collapses
// to ErrTokenInvalid so callers learn nothing about why verification
// failed.
func (s *TokenService) Verify(token string) (Claims, error) {
	var parsed jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, ErrTokenInvalid
	}
	if parsed.Subject == "" || parsed.ExpiresAt == nil {
		return Claims{}, ErrTokenInvalid
	}

	claims := Claims{
		Subject:   parsed.Subject,
		ExpiresAt: parsed.ExpiresAt.Time,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time
	}
	return claims, nil
}

// Authenticate extracts and verifies the bearer token from request headers.
// It is a pure function of (headers, secret): missing header, missing
// Bearer prefix, and verification failure all yield ErrTokenInvalid.
func (s *TokenService) Authenticate(headers http.Header) (Claims, error) {
	value := headers.Get("Authorization")
	if value == "" {
		return Claims{}, ErrTokenInvalid
	}
	token, found := strings.CutPrefix(value, bearerPrefix)
	if !found {
		return Claims{}, ErrTokenInvalid
	}
	return s.Verify(token)
}
