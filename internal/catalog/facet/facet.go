// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

/*
Package facet aggregates product attribute values into filter facets.

A facet is one filter of a category's effective set together with the
distinct values products actually carry for it and how often each occurs.
Browse and search UIs use the counts to render filter sidebars. Aggregation
is a pure fold over stored attribute values; nothing here writes.
*/
package facet

import (
	"github.com/castorie/castorie/internal/catalog/filter"
)

// ValueCount is one distinct value of a facet with its occurrence count.
type ValueCount struct {
	Value        string `json:"value"`
	DisplayValue string `json:"display_value,omitempty"`
	Count        int    `json:"count"`
}

// Bucket is one numeric interval of a range facet. Lo is inclusive, Hi
// exclusive except for the last bucket.
type Bucket struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// FilterFacet aggregates one filter of the effective set. Select and
// boolean filters fill Values; numeric-range filters fill Buckets.
type FilterFacet struct {
	FilterID    string           `json:"filter_id"`
	Name        string           `json:"name"`
	DisplayName string           `json:"display_name"`
	ValueType   filter.ValueType `json:"value_type"`
	IsRequired  bool             `json:"is_required"`
	Values      []ValueCount     `json:"values,omitempty"`
	Buckets     []Bucket         `json:"buckets,omitempty"`
}

// FacetSet is the aggregation result for one category.
type FacetSet struct {
	CategoryID   string         `json:"category_id"`
	ProductCount int            `json:"product_count"`
	Facets       []*FilterFacet `json:"facets"`
}
