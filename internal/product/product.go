// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

/*
Package product is the boundary to the product catalog.

Products themselves live in another service. This package reads the
attribute values they carry, and validates submitted attributes against the
effective filter set of a category path before a product may be published.
*/
package product

// AttributeValue is one stored (product, filter, value) fact. Multi-select
// filters yield one row per selected value.
type AttributeValue struct {
	ProductID  string `json:"product_id"`
	CategoryID string `json:"category_id"`
	FilterID   string `json:"filter_id"`
	Value      string `json:"value"`
}

// PublishInput is a publish-validation request: the product's category path
// and its submitted attribute values keyed by filter id.
type PublishInput struct {
	L1     string              `json:"l1"`
	L2     string              `json:"l2"`
	L3     string              `json:"l3"`
	Values map[string][]string `json:"values"`
}
