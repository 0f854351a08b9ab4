// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

/*
Package category manages the three-level product category tree.

Level 1 holds top categories ("Men"), level 2 mid categories ("Clothing"),
level 3 leaf categories ("T-Shirts"). Parent linkage is fixed at creation;
categories are retired via the is_active flag, never deleted, so filter
assignments and historical product references stay resolvable.
*/
package category

import "time"

// Levels of the category tree.
const (
	LevelTop  = 1
	LevelMid  = 2
	LevelLeaf = 3
)

// Category is a node in the product taxonomy.
type Category struct {
	ID        string    `json:"id"` // UUIDv7
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Level     int       `json:"level"`
	ParentID  *string   `json:"parent_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Children holds the next level down, populated by tree queries only.
	Children []*Category `json:"children,omitempty"`
}

// ListFilter narrows a category listing.
type ListFilter struct {
	Level      *int
	ParentID   *string
	ActiveOnly bool
}

// CreateInput carries operator input for a new category.
type CreateInput struct {
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Level     int     `json:"level"`
	ParentID  *string `json:"parent_id"`
	SortOrder int     `json:"sort_order"`
}

// UpdateInput carries a partial update. Level and parent are immutable:
// moving a subtree would silently re-scope every assignment below it, so a
// mis-levelled category is recreated instead.
type UpdateInput struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"sort_order"`
}

// # Field Identifiers

const (
	FieldName      = "name"
	FieldSlug      = "slug"
	FieldLevel     = "level"
	FieldParentID  = "parent_id"
	FieldSortOrder = "sort_order"
)
