// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

// Package dberr bridges low-level PostgreSQL errors into the [apperr] taxonomy.
//
// Storage implementations never return raw pgx errors to the service layer;
// they pass everything through [Wrap] so that callers see a classified
// [apperr.AppError] with the SQL internals hidden from clients.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/castorie/castorie/internal/platform/apperr"
)

// ErrNotFound is the standard error returned when a queried row doesn't exist.
var ErrNotFound = apperr.NotFound("Resource")

// Wrap inspects a database error and classifies it into a meaningful
// [apperr.AppError]. The action string names the failed operation for
// server-side logs; it is never shown to clients.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Missing rows are a domain condition, not a storage failure.
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// Constraint violations carry a SQLSTATE we can map precisely.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict("A record with the same identity already exists")
		case pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError("Referenced record does not exist")
		case pgerrcode.CheckViolation:
			return apperr.ValidationError("Value violates a storage constraint")
		}
	}

	// Everything else is an opaque storage failure. The action tag stays in
	// the wrapped cause for logs; clients only ever see the generic message.
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation, before or after wrapping.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return apperr.IsConflict(err)
}
