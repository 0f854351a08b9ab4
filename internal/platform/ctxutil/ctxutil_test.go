// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/castorie/castorie/internal/platform/ctxutil"
	"github.com/castorie/castorie/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Operator verifies that OperatorClaims can be stored in context.
*/
func TestContext_Operator(t *testing.T) {
	ctx := context.Background()
	claims := &sec.OperatorClaims{
		OperatorID: "op-123",
		Username:   "catalog-admin",
		Role:       "operator",
	}

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetOperator(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithOperator(ctx, claims)
	retrieved := ctxutil.GetOperator(ctx)

	assert.NotNil(t, retrieved)
	assert.Equal(t, "op-123", retrieved.OperatorID)
	assert.Equal(t, "operator", retrieved.Role)
}
