// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

/*
Package filter manages the reusable catalog of typed filter definitions.

A filter describes one product attribute ("Size", "Sleeve Length") with a
value type and, for select types, an ordered option set. Filters are bound
to categories through the assignment package and deactivated rather than
deleted so stored product attribute values keep referential meaning.
*/
package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/castorie/castorie/pkg/slice"
)

// ValueType classifies how a filter's values are entered and aggregated.
type ValueType string

const (
	SingleSelect ValueType = "single_select"
	MultiSelect  ValueType = "multi_select"
	Boolean      ValueType = "boolean"
	NumericRange ValueType = "numeric_range"
)

// IsSelect reports whether the type carries an enumerable option set.
func (t ValueType) IsSelect() bool {
	return t == SingleSelect || t == MultiSelect
}

// IsValid reports whether t is one of the known value types.
func (t ValueType) IsValid() bool {
	switch t {
	case SingleSelect, MultiSelect, Boolean, NumericRange:
		return true
	}
	return false
}

// ParseRangeValue parses a numeric-range attribute value. Accepted shapes
// are a single number ("42") or a "min-max" pair ("10-25"); a pair must
// have min <= max. The single form yields lo == hi.
func ParseRangeValue(value string) (lo, hi float64, ok bool) {
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n, n, true
	}

	// Split on the last dash so negative minimums stay parseable.
	idx := strings.LastIndex(value, "-")
	if idx <= 0 {
		return 0, 0, false
	}

	lo, err := strconv.ParseFloat(value[:idx], 64)
	if err != nil {
		return 0, 0, false
	}
	hi, err = strconv.ParseFloat(value[idx+1:], 64)
	if err != nil || lo > hi {
		return 0, 0, false
	}

	return lo, hi, true
}

// Option is a single enumerable value of a select-type filter.
type Option struct {
	Value        string `json:"value"`
	DisplayValue string `json:"display_value"`
}

// Filter is a reusable, typed product attribute definition.
type Filter struct {
	ID          string    `json:"id"` // UUIDv7
	Name        string    `json:"name"` // machine key, unique
	DisplayName string    `json:"display_name"`
	ValueType   ValueType `json:"value_type"`
	Options     []Option  `json:"options,omitempty"` // ordered; select types only
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OptionValues returns the machine values of the option set in order.
func (f *Filter) OptionValues() []string {
	return slice.Map(f.Options, func(option Option) string { return option.Value })
}

// HasOption reports whether value is part of the filter's option set.
func (f *Filter) HasOption(value string) bool {
	for _, option := range f.Options {
		if option.Value == value {
			return true
		}
	}
	return false
}

// CreateInput carries operator input for a new filter definition.
type CreateInput struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	ValueType   ValueType `json:"value_type"`
	Options     []Option  `json:"options"`
	SortOrder   int       `json:"sort_order"`
}

// UpdateInput carries a partial update. The value type is deliberately
// absent: changing it would orphan stored option references.
type UpdateInput struct {
	DisplayName *string  `json:"display_name"`
	SortOrder   *int     `json:"sort_order"`
	Options     []Option `json:"options"`
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldDisplayName = "display_name"
	FieldValueType   = "value_type"
	FieldOptions     = "options"
)
