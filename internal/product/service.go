// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

package product

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/castorie/castorie/internal/catalog/filter"
	"github.com/castorie/castorie/internal/catalog/resolver"
	"github.com/castorie/castorie/internal/platform/validate"
)

// EffectiveResolver resolves the filter set that governs a category path.
type EffectiveResolver interface {
	EffectiveFilters(ctx context.Context, path resolver.Path) (*resolver.Resolution, error)
}

// Service validates product submissions against the taxonomy.
type Service struct {
	resolver EffectiveResolver
	logger   *slog.Logger
}

// NewService constructs a new product [Service].
func NewService(resolver EffectiveResolver, logger *slog.Logger) *Service {
	return &Service{resolver: resolver, logger: logger}
}

/*
ValidatePublish checks a product's submitted attribute values against the
effective filter set of its category path.

The rules, per filter:
  - every required filter must have at least one value
  - select values must come from the filter's option set, and a
    single-select filter takes exactly one value
  - boolean filters take exactly one of "true" or "false"
  - numeric-range values must parse as a number or a "min-max" pair
  - values for filters outside the effective set are rejected

Returns:
  - *resolver.Resolution: The effective set the product was checked against
  - error: Validation failures with one detail entry per offending filter,
    or not-found when the category path does not resolve
*/
func (service *Service) ValidatePublish(ctx context.Context, input PublishInput) (*resolver.Resolution, error) {
	resolution, err := service.resolver.EffectiveFilters(ctx, resolver.Path{
		L1: input.L1,
		L2: input.L2,
		L3: input.L3,
	})
	if err != nil {
		return nil, err
	}

	effective := make(map[string]*resolver.ResolvedFilter)
	for _, resolved := range resolution.Required {
		effective[resolved.FilterID] = resolved
	}
	for _, resolved := range resolution.Optional {
		effective[resolved.FilterID] = resolved
	}

	validator := &validate.Validator{}

	for _, required := range resolution.Required {
		if len(input.Values[required.FilterID]) == 0 {
			validator.Custom(required.Name, true, "A value is required")
		}
	}

	for filterID, values := range input.Values {
		resolved, known := effective[filterID]
		if !known {
			validator.Custom(filterID, true, "Filter does not apply to this category")
			continue
		}
		service.checkShape(validator, resolved, values)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	return resolution, nil
}

func (service *Service) checkShape(validator *validate.Validator, resolved *resolver.ResolvedFilter, values []string) {
	if len(values) == 0 {
		return
	}

	switch resolved.ValueType {
	case filter.SingleSelect:
		validator.Custom(resolved.Name, len(values) > 1, "Exactly one value is allowed")
		service.checkOptions(validator, resolved, values)

	case filter.MultiSelect:
		service.checkOptions(validator, resolved, values)

	case filter.Boolean:
		validator.Custom(resolved.Name, len(values) > 1, "Exactly one value is allowed")
		for _, value := range values {
			validator.Custom(resolved.Name, value != "true" && value != "false",
				"Value must be true or false")
		}

	case filter.NumericRange:
		for _, value := range values {
			_, _, ok := filter.ParseRangeValue(value)
			validator.Custom(resolved.Name, !ok,
				fmt.Sprintf("%q is not a number or min-max pair", value))
		}
	}
}

func (service *Service) checkOptions(validator *validate.Validator, resolved *resolver.ResolvedFilter, values []string) {
	allowed := make(map[string]bool, len(resolved.Options))
	for _, option := range resolved.Options {
		allowed[option.Value] = true
	}
	for _, value := range values {
		validator.Custom(resolved.Name, !allowed[value],
			fmt.Sprintf("%q is not an allowed option", value))
	}
}
