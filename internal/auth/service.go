// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package auth

import (
	"context"
	"errors"

	"github.com/samber/oops"

	"github.com/spendlog/spendlog/internal/domain"
)

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user and returns the persisted record with its
	// store-assigned id and creation timestamp. A duplicate username is
	// reported as ErrUsernameTaken.
	Create(ctx context.Context, user *domain.NewUser) (*domain.User, error)

	// GetByUsername retrieves a user by normalized username.
	// Returns ErrNotFound if no such user exists.
	GetByUsername(ctx context.Context, username domain.Username) (*domain.User, error)
}

// Service provides registration and login.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens *TokenService
}

// NewService creates a new Service.
func NewService(users UserRepository, hasher PasswordHasher, tokens *TokenService) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// dummyPasswordHash is used when a user doesn't exist to prevent timing
// attacks: verification still runs so response time stays consistent.
// This is NOT a real credential - it's a fake hash that will never match
// any password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register validates the raw registration fields, hashes the password, and
// stores the new user. Validation failures surface as
// *domain.ValidationError; a duplicate username as ErrUsernameTaken.
func (s *Service) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	uname, err := domain.NewUsername(username)
	if err != nil {
		return nil, err
	}
	addr, err := domain.NewEmail(email)
	if err != nil {
		return nil, err
	}
	pass, err := domain.NewPassword(password)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(pass.String())
	if err != nil {
		return nil, oops.Code("AUTH_HASH_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := s.users.Create(ctx, &domain.NewUser{
		Username:     uname,
		Email:        addr,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, err //nolint:wrapcheck // sentinel must stay matchable
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "insert user").
			With("username", uname.String()).
			Wrap(err)
	}
	return user, nil
}

// Login authenticates a user and issues a bearer token.
// The submitted password runs through the same normalization as at
// registration so verification matches the stored hash. Unknown username,
// invalid input, and wrong password all return ErrInvalidCredentials;
// verification against a dummy hash keeps response time consistent when
// the user does not exist.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	uname, unameErr := domain.NewUsername(username)
	pass, passErr := domain.NewPassword(password)

	var targetHash string
	var user *domain.User

	if unameErr == nil {
		found, lookupErr := s.users.GetByUsername(ctx, uname)
		switch {
		case lookupErr == nil:
			user = found
			targetHash = found.PasswordHash
		case errors.Is(lookupErr, ErrNotFound):
			targetHash = dummyPasswordHash
		default:
			return "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by username").
				Wrap(lookupErr)
		}
	} else {
		targetHash = dummyPasswordHash
	}

	// Always verify to keep timing independent of whether the user exists.
	plaintext := pass.String()
	if passErr != nil {
		plaintext = password
	}
	valid, verifyErr := s.hasher.Verify(plaintext, targetHash)
	if verifyErr != nil {
		if user == nil {
			return "", ErrInvalidCredentials
		}
		// A stored hash we cannot parse is an internal fault, not a
		// credential failure.
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}
	if user == nil || unameErr != nil || passErr != nil || !valid {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}
	return token, nil
}
