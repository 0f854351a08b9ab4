// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

package filter

import (
	"context"
	"log/slog"

	"github.com/castorie/castorie/internal/platform/apperr"
	"github.com/castorie/castorie/internal/platform/validate"
	"github.com/castorie/castorie/pkg/pagination"
	"github.com/castorie/castorie/pkg/uuidv7"
)

// AssignmentChecker reports whether a filter is referenced by any assignment,
// active or not. Implemented by the assignment repository.
type AssignmentChecker interface {
	FilterHasAssignments(ctx context.Context, filterID string) (bool, error)
}

// ResolutionInvalidator drops cached filter resolutions. A filter mutation
// can affect any category the filter is assigned to, so the whole resolution
// cache is flushed rather than tracked per category.
type ResolutionInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

// Service orchestrates business rules for the filter catalog.
type Service struct {
	repo        Repository
	assignments AssignmentChecker
	cache       ResolutionInvalidator
	logger      *slog.Logger
}

// NewService constructs a new filter [Service].
func NewService(repo Repository, assignments AssignmentChecker, cache ResolutionInvalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		assignments: assignments,
		cache:       cache,
		logger:      logger,
	}
}

/*
Create validates and persists a new filter definition.

Select types require a non-empty option set; boolean and numeric-range types
must not carry one. The machine name is unique across the catalog.

Returns:
  - *Filter: The created filter
  - error: Validation, conflict, or persistence failures
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*Filter, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 100).
		Slug(FieldName, input.Name).
		Required(FieldDisplayName, input.DisplayName).
		MaxLen(FieldDisplayName, input.DisplayName, 200).
		Custom(FieldValueType, !input.ValueType.IsValid(), "Unknown value type")

	if input.ValueType.IsSelect() && len(input.Options) == 0 {
		validator.Custom(FieldOptions, true, "Select filters require at least one option")
	}
	if !input.ValueType.IsSelect() && len(input.Options) > 0 {
		validator.Custom(FieldOptions, true, "Options are only allowed on select filters")
	}
	validateOptionSet(validator, input.Options)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	filter := &Filter{
		ID:          uuidv7.New(),
		Name:        input.Name,
		DisplayName: input.DisplayName,
		ValueType:   input.ValueType,
		Options:     input.Options,
		IsActive:    true,
		SortOrder:   input.SortOrder,
	}

	if err := service.repo.Create(ctx, filter); err != nil {
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("Filter name already in use")
		}
		return nil, err
	}

	service.logger.Info("filter_created",
		slog.String("filter_id", filter.ID),
		slog.String("name", filter.Name),
		slog.String("value_type", string(filter.ValueType)),
	)

	return filter, nil
}

// Get retrieves a filter by ID.
func (service *Service) Get(ctx context.Context, id string) (*Filter, error) {
	found, err := service.repo.FindByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Filter")
		}
		return nil, err
	}
	return found, nil
}

// List returns the full catalog ordered by (sort_order, display_name).
// Resolution paths use this; the HTTP listing goes through [Service.ListPaged].
func (service *Service) List(ctx context.Context, activeOnly bool) ([]*Filter, error) {
	return service.repo.List(ctx, activeOnly)
}

// ListPaged returns one page of the catalog with pagination metadata.
func (service *Service) ListPaged(ctx context.Context, activeOnly bool, params pagination.Params) ([]*Filter, pagination.Meta, error) {
	filters, total, err := service.repo.ListPaged(ctx, activeOnly, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return filters, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
Update applies a partial update to a filter definition.

The value type is immutable. Once the filter has assignments, options may
only grow: removing or renaming an option would orphan product attribute
values that reference it.
*/
func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*Filter, error) {
	found, err := service.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.DisplayName != nil {
		validator.Required(FieldDisplayName, *input.DisplayName).MaxLen(FieldDisplayName, *input.DisplayName, 200)
	}

	if input.Options != nil {
		if !found.ValueType.IsSelect() {
			validator.Custom(FieldOptions, true, "Options are only allowed on select filters")
		} else {
			if len(input.Options) == 0 {
				validator.Custom(FieldOptions, true, "Select filters require at least one option")
			}
			validateOptionSet(validator, input.Options)

			assigned, err := service.assignments.FilterHasAssignments(ctx, id)
			if err != nil {
				return nil, err
			}
			if assigned && !coversExistingOptions(found.Options, input.Options) {
				validator.Custom(FieldOptions, true, "Options of an assigned filter can be extended but not removed")
			}
		}
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		found.DisplayName = *input.DisplayName
	}
	if input.SortOrder != nil {
		found.SortOrder = *input.SortOrder
	}
	if input.Options != nil {
		found.Options = input.Options
	}

	if err := service.repo.Update(ctx, found); err != nil {
		return nil, err
	}

	if err := service.cache.InvalidateAll(ctx); err != nil {
		service.logger.Warn("resolver_cache_invalidation_failed",
			slog.String("filter_id", id), slog.Any("error", err))
	}

	return found, nil
}

// Deactivate retires a filter from the catalog. Existing assignments and
// product attribute values keep referencing it for historical reads.
func (service *Service) Deactivate(ctx context.Context, id string) error {
	if err := service.repo.SetActive(ctx, id, false); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("Filter")
		}
		return err
	}

	if err := service.cache.InvalidateAll(ctx); err != nil {
		service.logger.Warn("resolver_cache_invalidation_failed",
			slog.String("filter_id", id), slog.Any("error", err))
	}

	service.logger.Info("filter_deactivated", slog.String("filter_id", id))
	return nil
}

// Reactivate brings a retired filter back into the catalog.
func (service *Service) Reactivate(ctx context.Context, id string) (*Filter, error) {
	found, err := service.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if found.IsActive {
		return found, nil
	}

	if err := service.repo.SetActive(ctx, id, true); err != nil {
		return nil, err
	}
	found.IsActive = true

	if err := service.cache.InvalidateAll(ctx); err != nil {
		service.logger.Warn("resolver_cache_invalidation_failed",
			slog.String("filter_id", id), slog.Any("error", err))
	}

	service.logger.Info("filter_reactivated", slog.String("filter_id", id))
	return found, nil
}

// validateOptionSet rejects blank and duplicate option values.
func validateOptionSet(validator *validate.Validator, options []Option) {
	seen := make(map[string]bool, len(options))
	for _, option := range options {
		if option.Value == "" {
			validator.Custom(FieldOptions, true, "Option values cannot be empty")
			return
		}
		if seen[option.Value] {
			validator.Custom(FieldOptions, true, "Option values must be unique")
			return
		}
		seen[option.Value] = true
	}
}

// coversExistingOptions reports whether every current option value survives
// in the proposed set.
func coversExistingOptions(current, proposed []Option) bool {
	proposedValues := make(map[string]bool, len(proposed))
	for _, option := range proposed {
		proposedValues[option.Value] = true
	}
	for _, option := range current {
		if !proposedValues[option.Value] {
			return false
		}
	}
	return true
}
