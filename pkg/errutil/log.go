// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Spendlog Contributors

// Package errutil provides helpers for logging and asserting on
// structured errors built with samber/oops.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// Attrs extracts slog attributes from err. Errors built with oops
// contribute their code and context map alongside the message; plain
// errors contribute only the message.
func Attrs(err error) []any {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return []any{"error", err}
	}
	attrs := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != nil {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	return attrs
}

// LogError logs err at error level with whatever structured context
// it carries.
func LogError(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, Attrs(err)...)
}
