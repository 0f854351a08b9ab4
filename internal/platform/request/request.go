// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/castorie/castorie/internal/platform/apperr"
	"github.com/castorie/castorie/internal/platform/ctxutil"
	"github.com/castorie/castorie/internal/platform/sec"
	"github.com/castorie/castorie/internal/platform/validate"
)

// DecodeJSON reads the request body and decodes it into the target structure.
//
// Returns validate.ErrInvalidJSON if decoding fails.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// ID retrieves a named URL parameter (UUID/Slug) from the request.
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Operator extracts the authenticated operator claims from the request context.
//
// Returns nil if the request is not authenticated.
func Operator(request *http.Request) *sec.OperatorClaims {
	return ctxutil.GetOperator(request.Context())
}

// RequiredOperator ensures the request is authenticated and returns the claims.
func RequiredOperator(request *http.Request) (*sec.OperatorClaims, error) {
	claims := ctxutil.GetOperator(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Operator authentication required")
	}
	return claims, nil
}

// RequiredOperatorID returns the ID of the currently authenticated operator.
func RequiredOperatorID(request *http.Request) (string, error) {
	claims, err := RequiredOperator(request)
	if err != nil {
		return "", err
	}
	return claims.OperatorID, nil
}
