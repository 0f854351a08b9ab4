// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

/*
Package resolver answers the storefront's central question: which filters
apply to a given category, and which are available to bind.

Resolution is strictly per category. A category exposes exactly the filters
actively assigned to it; nothing is inherited from ancestors, so a leaf with
no assignments resolves to an empty set even when its parents carry filters.

Resolutions are cached in Redis per category and invalidated explicitly by
the mutation paths in the category, filter, and assignment services. The
cache TTL is only a backstop against missed invalidations.
*/
package resolver

import (
	"time"

	"github.com/castorie/castorie/internal/catalog/filter"
)

// ResolvedFilter is one filter as it applies to a category, flattening the
// filter definition with the assignment metadata.
type ResolvedFilter struct {
	FilterID    string           `json:"filter_id"`
	Name        string           `json:"name"`
	DisplayName string           `json:"display_name"`
	ValueType   filter.ValueType `json:"value_type"`
	Options     []filter.Option  `json:"options,omitempty"`
	IsRequired  bool             `json:"is_required"`
	SortOrder   int              `json:"sort_order"`
}

// Resolution is the effective filter set of one category.
type Resolution struct {
	CategoryID    string            `json:"category_id"`
	CategorySlug  string            `json:"category_slug"`
	CategoryLevel int               `json:"category_level"`
	Required      []*ResolvedFilter `json:"required"`
	Optional      []*ResolvedFilter `json:"optional"`
	ResolvedAt    time.Time         `json:"resolved_at"`
}

// Path addresses a category by its level chain, most specific last. Each
// element may be a category id or a slug. L1 is mandatory; L2 and L3
// narrow the resolution when present.
type Path struct {
	L1 string
	L2 string
	L3 string
}
