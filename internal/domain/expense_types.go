// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Description validation constraints.
const (
	MinDescriptionLength = 3
	MaxDescriptionLength = 15
)

// Amount bounds in minor currency units.
const (
	MinAmount = 1
	MaxAmount = 300_000
)

// Description is a normalized (trimmed, lower-cased) expense description.
type Description struct {
	value string
}

// NewDescription validates and normalizes a raw description.
// Same rules as usernames: non-empty, length 3-15, letters/digits/underscore
// only, first character ASCII alphanumeric.
func NewDescription(raw string) (Description, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return Description{}, &ValidationError{Field: "description", Kind: FieldEmpty}
	}
	if n := utf8.RuneCountInString(v); n < MinDescriptionLength || n > MaxDescriptionLength {
		return Description{}, &ValidationError{Field: "description", Kind: InvalidLength}
	}
	for _, r := range v {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return Description{}, &ValidationError{Field: "description", Kind: InvalidCharacter}
		}
	}
	if !isASCIIAlphanumeric(rune(v[0])) {
		return Description{}, &ValidationError{Field: "description", Kind: InvalidStartCharacter}
	}
	return Description{value: v}, nil
}

// String returns the normalized description.
func (d Description) String() string { return d.value }

// Amount is a validated expense amount in minor currency units.
type Amount struct {
	value int64
}

// NewAmount validates a raw amount. Zero, negative, and values above
// MaxAmount are rejected.
func NewAmount(raw int64) (Amount, error) {
	if raw < MinAmount || raw > MaxAmount {
		return Amount{}, &ValidationError{Field: "amount", Kind: InvalidAmount}
	}
	return Amount{value: raw}, nil
}

// Int64 returns the amount in minor currency units.
func (a Amount) Int64() int64 { return a.value }

// Category is a member of the closed expense category set.
type Category struct {
	name string
}

// canonicalCategories maps normalized input to the stored canonical form.
var canonicalCategories = map[string]string{
	"food":        "Food",
	"fare":        "Fare",
	"groceries":   "Groceries",
	"leisure":     "Leisure",
	"electronics": "Electronics",
	"utilities":   "Utilities",
	"clothing":    "Clothing",
	"health":      "Health",
}

// NewCategory matches a raw string against the category set,
// case-insensitively and tolerant of surrounding whitespace. Any failure
// reports InvalidCategory.
func NewCategory(raw string) (Category, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" || len(v) < 3 {
		return Category{}, &ValidationError{Field: "category", Kind: InvalidCategory}
	}
	for _, r := range v {
		if r < 'a' || r > 'z' {
			return Category{}, &ValidationError{Field: "category", Kind: InvalidCategory}
		}
	}
	name, ok := canonicalCategories[v]
	if !ok {
		return Category{}, &ValidationError{Field: "category", Kind: InvalidCategory}
	}
	return Category{name: name}, nil
}

// String returns the canonical category name, e.g. "Food".
func (c Category) String() string { return c.name }
