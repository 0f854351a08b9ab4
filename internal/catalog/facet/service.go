// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

package facet

import (
	"context"
	"log/slog"
	"sort"

	"github.com/castorie/castorie/internal/catalog/filter"
	"github.com/castorie/castorie/internal/catalog/resolver"
	"github.com/castorie/castorie/internal/product"
	"github.com/castorie/castorie/pkg/slice"
)

// EffectiveResolver resolves the filter set that governs a category path.
type EffectiveResolver interface {
	EffectiveFilters(ctx context.Context, path resolver.Path) (*resolver.Resolution, error)
}

// AttributeSource reads the attribute values products carry in a category.
type AttributeSource interface {
	ListForCategory(ctx context.Context, categoryID string) ([]*product.AttributeValue, error)
}

// Service folds product attribute values into facets.
type Service struct {
	resolver   EffectiveResolver
	attributes AttributeSource
	logger     *slog.Logger
}

// NewService constructs a new facet [Service].
func NewService(resolver EffectiveResolver, attributes AttributeSource, logger *slog.Logger) *Service {
	return &Service{
		resolver:   resolver,
		attributes: attributes,
		logger:     logger,
	}
}

/*
Aggregate computes the facet set for a category path.

Each filter of the path's effective set becomes one facet. Select and
boolean facets enumerate distinct stored values with counts, ordered by
count descending then by the filter's option order. Numeric-range facets
fold values into the caller-supplied bucket boundaries instead; a stored
range counts toward every bucket it overlaps. Boundaries are optional and
only affect numeric-range filters.

A non-empty names argument narrows the output to the named filters; names
outside the effective set are ignored. The product count always covers the
whole category.

Returns:
  - *FacetSet: Facets in effective-set order, required before optional
  - error: Not-found when the path does not resolve, or persistence failures
*/
func (service *Service) Aggregate(ctx context.Context, path resolver.Path, boundaries []float64, names []string) (*FacetSet, error) {
	resolution, err := service.resolver.EffectiveFilters(ctx, path)
	if err != nil {
		return nil, err
	}

	values, err := service.attributes.ListForCategory(ctx, resolution.CategoryID)
	if err != nil {
		return nil, err
	}

	// Group stored values by filter and count the distinct products once.
	byFilter := make(map[string][]*product.AttributeValue)
	products := make(map[string]bool)
	for _, value := range values {
		byFilter[value.FilterID] = append(byFilter[value.FilterID], value)
		products[value.ProductID] = true
	}

	effective := make([]*resolver.ResolvedFilter, 0, len(resolution.Required)+len(resolution.Optional))
	effective = append(effective, resolution.Required...)
	effective = append(effective, resolution.Optional...)
	if len(names) > 0 {
		wanted := make(map[string]bool, len(names))
		for _, name := range names {
			wanted[name] = true
		}
		effective = slice.Filter(effective, func(resolved *resolver.ResolvedFilter) bool {
			return wanted[resolved.Name]
		})
	}
	facets := make([]*FilterFacet, 0, len(effective))
	for _, resolved := range effective {
		facets = append(facets, service.aggregateOne(resolved, byFilter[resolved.FilterID], boundaries))
	}

	return &FacetSet{
		CategoryID:   resolution.CategoryID,
		ProductCount: len(products),
		Facets:       facets,
	}, nil
}

func (service *Service) aggregateOne(resolved *resolver.ResolvedFilter, values []*product.AttributeValue, boundaries []float64) *FilterFacet {
	f := &FilterFacet{
		FilterID:    resolved.FilterID,
		Name:        resolved.Name,
		DisplayName: resolved.DisplayName,
		ValueType:   resolved.ValueType,
		IsRequired:  resolved.IsRequired,
	}

	if resolved.ValueType == filter.NumericRange {
		f.Buckets = bucketize(values, boundaries)
		return f
	}

	f.Values = countValues(resolved, values)
	return f
}

// countValues tallies distinct values, ordered by count descending with
// the filter's option order breaking ties. Stored values outside the
// option set sort after known options, alphabetically.
func countValues(resolved *resolver.ResolvedFilter, values []*product.AttributeValue) []ValueCount {
	counts := make(map[string]int)
	for _, value := range values {
		counts[value.Value]++
	}

	display := make(map[string]string, len(resolved.Options))
	optionOrder := make(map[string]int, len(resolved.Options))
	for i, option := range resolved.Options {
		display[option.Value] = option.DisplayValue
		optionOrder[option.Value] = i
	}

	result := make([]ValueCount, 0, len(counts))
	for value, count := range counts {
		result = append(result, ValueCount{
			Value:        value,
			DisplayValue: display[value],
			Count:        count,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		oi, iKnown := optionOrder[result[i].Value]
		oj, jKnown := optionOrder[result[j].Value]
		switch {
		case iKnown && jKnown:
			return oi < oj
		case iKnown != jKnown:
			return iKnown
		default:
			return result[i].Value < result[j].Value
		}
	})

	return result
}

// bucketize folds range values into half-open intervals between consecutive
// boundaries. Fewer than two boundaries yields no buckets.
func bucketize(values []*product.AttributeValue, boundaries []float64) []Bucket {
	if len(boundaries) < 2 {
		return []Bucket{}
	}

	sorted := make([]float64, len(boundaries))
	copy(sorted, boundaries)
	sort.Float64s(sorted)

	buckets := make([]Bucket, len(sorted)-1)
	for i := range buckets {
		buckets[i] = Bucket{Lo: sorted[i], Hi: sorted[i+1]}
	}

	for _, value := range values {
		lo, hi, ok := filter.ParseRangeValue(value.Value)
		if !ok {
			continue
		}
		for i := range buckets {
			if overlaps(lo, hi, buckets[i].Lo, buckets[i].Hi, i == len(buckets)-1) {
				buckets[i].Count++
			}
		}
	}

	return buckets
}

func overlaps(lo, hi, bucketLo, bucketHi float64, lastBucket bool) bool {
	if lastBucket {
		return hi >= bucketLo && lo <= bucketHi
	}
	return hi >= bucketLo && lo < bucketHi
}
