// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/castorie/castorie/internal/platform/apperr"
	"github.com/castorie/castorie/internal/platform/ctxkey"
	"github.com/castorie/castorie/internal/platform/respond"
	"github.com/castorie/castorie/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify operator tokens.
//
// Defining it here decouples the middleware from the concrete [sec] verifier,
// so tests can inject a stub.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.OperatorClaims, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, the request proceeds as anonymous (browse endpoints are public).
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Inject [*sec.OperatorClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(request.Context(), ctxkey.KeyOperator, claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireOperator blocks requests that are not authenticated as an operator.
//
// Must be registered in the router AFTER [Authenticate]. All taxonomy
// mutations (category/filter/assignment writes) are mounted behind it.
func RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := GetOperator(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Operator authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// GetOperator retrieves the [*sec.OperatorClaims] from the [context.Context].
// Returns nil for anonymous requests.
func GetOperator(ctx context.Context) *sec.OperatorClaims {
	claims, ok := ctx.Value(ctxkey.KeyOperator).(*sec.OperatorClaims)
	if !ok {
		return nil
	}
	return claims
}
