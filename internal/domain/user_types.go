// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

// Package domain defines the validated value types of the expense tracker.
//
// Every field that crosses the API boundary is constructed through exactly
// one fallible constructor (NewUsername, NewEmail, ...) which normalizes
// and validates the raw input. A constructed value is immutable and exposes
// only its normalized form, so invalid instances are unrepresentable
// downstream. Repository and handler code receives pre-validated types and
// unwraps them only when handing data to the store or serializer.
package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Username validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 15
)

// Password length constraints, applied to the plaintext before hashing.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 100
)

// Username is a normalized (trimmed, lower-cased) account name.
type Username struct {
	value string
}

// NewUsername validates and normalizes a raw username.
// Rules, in order: non-empty, length 3-15, letters/digits/underscore only,
// first character ASCII alphanumeric.
func NewUsername(raw string) (Username, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return Username{}, &ValidationError{Field: "username", Kind: FieldEmpty}
	}
	if n := utf8.RuneCountInString(v); n < MinUsernameLength || n > MaxUsernameLength {
		return Username{}, &ValidationError{Field: "username", Kind: InvalidLength}
	}
	for _, r := range v {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return Username{}, &ValidationError{Field: "username", Kind: InvalidCharacter}
		}
	}
	if !isASCIIAlphanumeric(rune(v[0])) {
		return Username{}, &ValidationError{Field: "username", Kind: InvalidStartCharacter}
	}
	return Username{value: v}, nil
}

// String returns the normalized username.
func (u Username) String() string { return u.value }

// Email is a normalized (trimmed, lower-cased) email address.
type Email struct {
	value string
}

// NewEmail validates and normalizes a raw email address.
// Requires exactly one '@', non-empty local and domain parts, at least one
// '.' in the domain, and no whitespace anywhere.
func NewEmail(raw string) (Email, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return Email{}, &ValidationError{Field: "email", Kind: FieldEmpty}
	}
	if strings.Count(v, "@") > 1 {
		return Email{}, &ValidationError{Field: "email", Kind: InvalidCharacter}
	}
	local, dom, found := strings.Cut(v, "@")
	if !found {
		return Email{}, &ValidationError{Field: "email", Kind: InvalidFormat}
	}
	if local == "" || dom == "" {
		return Email{}, &ValidationError{Field: "email", Kind: FieldEmpty}
	}
	if !strings.Contains(dom, ".") {
		return Email{}, &ValidationError{Field: "email", Kind: InvalidFormat}
	}
	if strings.ContainsFunc(v, unicode.IsSpace) {
		return Email{}, &ValidationError{Field: "email", Kind: InvalidStartCharacter}
	}
	return Email{value: v}, nil
}

// String returns the normalized email address.
func (e Email) String() string { return e.value }

// Password is a validated plaintext password awaiting hashing. It is never
// persisted; only the derived hash is.
type Password struct {
	value string
}

// NewPassword validates a raw password.
//
// The input is trimmed and lower-cased before the length check. Lower-casing
// a password weakens its entropy and is almost certainly not what anyone
// intended, but stored hashes were derived from the normalized form, so the
// behavior is kept for compatibility with existing accounts.
func NewPassword(raw string) (Password, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if n := utf8.RuneCountInString(v); n < MinPasswordLength || n > MaxPasswordLength {
		return Password{}, &ValidationError{Field: "password", Kind: InvalidLength}
	}
	return Password{value: v}, nil
}

// String returns the normalized plaintext. Callers must pass it straight to
// the hasher and never log or persist it.
func (p Password) String() string { return p.value }

func isASCIIAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
