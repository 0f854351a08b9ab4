// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// # Why UUIDv7?
//
// It is the primary key type across all catalog tables. Because it is
// time-sortable it keeps the PostgreSQL b-tree indexes append-friendly,
// avoiding the fragmentation that random UUIDv4 keys cause.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// # Safety
//
// It panics only if the OS random source is unavailable (extremely rare).
// OS entropy failure is an unrecoverable system-level error.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuidv7: failed to generate UUID: " + err.Error())
	}

	return id.String()
}
