// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// Using a private, unexported key type prevents collisions with third-party
// packages that also store values in the request context: Go's
// [context.Context] keys match on both value and type.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyOperator is the context key for the authenticated operator claims.
	KeyOperator key = "operator"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
