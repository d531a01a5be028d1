// Package logging defines the structured-logging interface used across the
// client. Two backends exist: log/slog and zap; New picks one by name.
package logging

import (
	"context"
	"strings"
)

const redacted = "[redacted]"

// isSecretKey reports whether values logged under key must not reach the log.
func isSecretKey(key string) bool {
	switch strings.ToLower(key) {
	case "token", "password", "authorization", "cookie":
		return true
	}
	return false
}

// redactArgs masks the values of secret keys in a key/value list.
func redactArgs(args []any) []any {
	var out []any
	for i := 0; i+1 < len(args); i += 2 {
		k, ok := args[i].(string)
		if !ok || !isSecretKey(k) {
			continue
		}
		if out == nil {
			out = append([]any(nil), args...)
		}
		out[i+1] = redacted
	}
	if out == nil {
		return args
	}
	return out
}

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "profile verified", "user_id", id, "role", role)
type Logger interface {
	// Debug logs verbose diagnostics (request ids, state transitions).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
