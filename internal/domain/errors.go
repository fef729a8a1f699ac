// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

package domain

import "fmt"

// ValidationKind classifies why a value failed construction.
type ValidationKind string

// Validation failure kinds. Each constructor fails with exactly one kind
// so callers can map failures to user-facing messages without string
// matching.
const (
	InvalidLength         ValidationKind = "invalid_length"
	FieldEmpty            ValidationKind = "field_empty"
	InvalidCharacter      ValidationKind = "invalid_character"
	InvalidStartCharacter ValidationKind = "invalid_start_character"
	InvalidFormat         ValidationKind = "invalid_format"
	InvalidAmount         ValidationKind = "invalid_amount"
	InvalidCategory       ValidationKind = "invalid_category"
)

// Message returns the user-facing description of the rule that failed.
func (k ValidationKind) Message() string {
	switch k {
	case InvalidLength:
		return "invalid length"
	case FieldEmpty:
		return "field must not be empty"
	case InvalidCharacter:
		return "field contains invalid characters"
	case InvalidStartCharacter:
		return "field must start with an alphanumeric character"
	case InvalidFormat:
		return "invalid format"
	case InvalidAmount:
		return "invalid amount"
	case InvalidCategory:
		return "invalid category"
	default:
		return "invalid value"
	}
}

// ValidationError reports an input validation failure for a named field.
type ValidationError struct {
	Field string
	Kind  ValidationKind
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Kind.Message())
}
