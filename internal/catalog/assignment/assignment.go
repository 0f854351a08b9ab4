// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

/*
Package assignment binds catalog filters to categories.

An assignment is the many-to-many edge between a category and a filter,
carrying required/optional and ordering metadata. Edges are deactivated
rather than deleted when unbound: products already carrying values for the
filter, and the audit trail of who bound what, must stay intact.

# Invariant

At most one ACTIVE assignment exists per (category, filter) pair. The
storage layer enforces this with a partial unique index, so concurrent
assign calls converge on a single record instead of racing in application
logic.
*/
package assignment

import (
	"time"

	"github.com/castorie/castorie/internal/catalog/filter"
)

// Assignment binds one filter to one category.
type Assignment struct {
	ID         string `json:"id"` // UUIDv7
	CategoryID string `json:"category_id"`
	FilterID   string `json:"filter_id"`

	// CategoryLevel is copied from the category at assignment time for fast
	// level-scoped queries. It is denormalized on purpose; the category's
	// level never changes after creation, so it cannot drift.
	CategoryLevel int `json:"category_level"`

	IsRequired bool      `json:"is_required"`
	IsActive   bool      `json:"is_active"`
	SortOrder  int       `json:"sort_order"`
	AssignedAt time.Time `json:"assigned_at"`
	AssignedBy string    `json:"assigned_by"`

	// Filter holds the joined filter definition, populated by list queries.
	Filter *filter.Filter `json:"filter,omitempty"`
}

// AssignInput carries one operator binding request.
type AssignInput struct {
	FilterID   string `json:"filter_id"`
	IsRequired bool   `json:"is_required"`
	SortOrder  int    `json:"sort_order"`
}

// # Field Identifiers

const (
	FieldFilterID = "filter_id"
	FieldEntries  = "entries"
)
