// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

package assignment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/castorie/castorie/internal/catalog/category"
	"github.com/castorie/castorie/internal/catalog/filter"
	"github.com/castorie/castorie/internal/platform/apperr"
	"github.com/castorie/castorie/internal/platform/validate"
	"github.com/castorie/castorie/pkg/uuidv7"
)

// CategorySource looks up categories for endpoint validation.
// Implemented by the category repository.
type CategorySource interface {
	FindByID(ctx context.Context, id string) (*category.Category, error)
}

// FilterSource looks up filter definitions for endpoint validation.
// Implemented by the filter repository.
type FilterSource interface {
	FindByID(ctx context.Context, id string) (*filter.Filter, error)
	FindByIDs(ctx context.Context, ids []string) ([]*filter.Filter, error)
}

// ResolutionInvalidator drops cached filter resolutions for a category.
type ResolutionInvalidator interface {
	InvalidateCategory(ctx context.Context, categoryID string) error
}

// Service orchestrates the binding of filters to categories.
type Service struct {
	repo       Repository
	categories CategorySource
	filters    FilterSource
	cache      ResolutionInvalidator
	logger     *slog.Logger
}

// NewService constructs a new assignment [Service].
func NewService(repo Repository, categories CategorySource, filters FilterSource, cache ResolutionInvalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		filters:    filters,
		cache:      cache,
		logger:     logger,
	}
}

/*
Assign binds a filter to a category.

The call is idempotent per (category, filter) pair: assigning an already
active pair returns the existing record unchanged, and assigning a pair
whose record was previously deactivated reactivates it with the new
metadata. Both endpoints must exist and be active.

Returns:
  - *Assignment: The active assignment for the pair
  - error: Validation, not-found, or persistence failures
*/
func (service *Service) Assign(ctx context.Context, categoryID string, input AssignInput, assignedBy string) (*Assignment, error) {
	validator := &validate.Validator{}
	validator.
		UUID(FieldFilterID, input.FilterID).
		Range("sort_order", input.SortOrder, 0, 10000)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	cat, err := service.endpointCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if _, err := service.endpointFilter(ctx, input.FilterID); err != nil {
		return nil, err
	}

	existing, err := service.repo.FindByPair(ctx, categoryID, input.FilterID)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	var result *Assignment
	switch {
	case existing == nil || apperr.IsNotFound(err):
		created := &Assignment{
			ID:            uuidv7.New(),
			CategoryID:    categoryID,
			FilterID:      input.FilterID,
			CategoryLevel: cat.Level,
			IsRequired:    input.IsRequired,
			SortOrder:     input.SortOrder,
			AssignedBy:    assignedBy,
		}
		inserted, err := service.repo.Insert(ctx, created)
		if err != nil {
			return nil, err
		}
		if !inserted {
			// A concurrent assign won the partial-index race; the pair now
			// has its single active record, so return that one.
			return service.repo.FindByPair(ctx, categoryID, input.FilterID)
		}
		result = created

	case existing.IsActive:
		return existing, nil

	default:
		result, err = service.repo.Reactivate(ctx, existing.ID, input.IsRequired, input.SortOrder, assignedBy)
		if err != nil {
			return nil, err
		}
	}

	service.invalidate(ctx, categoryID)
	return result, nil
}

/*
BulkAssign binds several filters to one category atomically.

Every entry is validated before any write happens: the category and all
filters must exist and be active, and the batch must not list the same
filter twice. If a write fails mid-batch, assignments already written by
this call are rolled back so the category is left unchanged.

Returns:
  - []*Assignment: The active assignments, in input order
  - error: Validation, not-found, or persistence failures
*/
func (service *Service) BulkAssign(ctx context.Context, categoryID string, inputs []AssignInput, assignedBy string) ([]*Assignment, error) {
	validator := &validate.Validator{}
	validator.Custom(FieldEntries, len(inputs) == 0, "At least one assignment entry is required")

	seen := make(map[string]bool, len(inputs))
	for i, input := range inputs {
		field := fmt.Sprintf("%s[%d].%s", FieldEntries, i, FieldFilterID)
		validator.UUID(field, input.FilterID)
		if seen[input.FilterID] {
			validator.Custom(field, true, "Duplicate filter in batch")
		}
		seen[input.FilterID] = true
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	cat, err := service.endpointCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	for _, input := range inputs {
		if _, err := service.endpointFilter(ctx, input.FilterID); err != nil {
			return nil, err
		}
	}

	results := make([]*Assignment, 0, len(inputs))
	written := make([]string, 0, len(inputs))

	for _, input := range inputs {
		a, wrote, err := service.assignOne(ctx, cat, input, assignedBy)
		if err != nil {
			service.rollback(ctx, written)
			return nil, err
		}
		if wrote {
			written = append(written, a.ID)
		}
		results = append(results, a)
	}

	if len(written) > 0 {
		service.invalidate(ctx, categoryID)
	}
	return results, nil
}

// assignOne performs the single-pair write step of a bulk call. It reports
// whether a record was actually written, so only those are rolled back.
func (service *Service) assignOne(ctx context.Context, cat *category.Category, input AssignInput, assignedBy string) (*Assignment, bool, error) {
	existing, err := service.repo.FindByPair(ctx, cat.ID, input.FilterID)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, false, err
	}

	if existing == nil || apperr.IsNotFound(err) {
		created := &Assignment{
			ID:            uuidv7.New(),
			CategoryID:    cat.ID,
			FilterID:      input.FilterID,
			CategoryLevel: cat.Level,
			IsRequired:    input.IsRequired,
			SortOrder:     input.SortOrder,
			AssignedBy:    assignedBy,
		}
		inserted, err := service.repo.Insert(ctx, created)
		if err != nil {
			return nil, false, err
		}
		if !inserted {
			winner, err := service.repo.FindByPair(ctx, cat.ID, input.FilterID)
			return winner, false, err
		}
		return created, true, nil
	}

	if existing.IsActive {
		return existing, false, nil
	}

	reactivated, err := service.repo.Reactivate(ctx, existing.ID, input.IsRequired, input.SortOrder, assignedBy)
	if err != nil {
		return nil, false, err
	}
	return reactivated, true, nil
}

func (service *Service) rollback(ctx context.Context, ids []string) {
	for _, id := range ids {
		if err := service.repo.DeactivateByID(ctx, id); err != nil {
			service.logger.Error("bulk assign rollback failed", "assignment_id", id, "error", err)
		}
	}
}

/*
Unassign deactivates the active assignment for a pair.

The assignment record survives with is_active false so the audit trail and
any product attribute values referencing the filter stay intact. Unassigning
a pair with no active assignment is a no-op.

Returns:
  - error: Not-found (unknown category) or persistence failures
*/
func (service *Service) Unassign(ctx context.Context, categoryID, filterID string) error {
	if _, err := service.categories.FindByID(ctx, categoryID); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("Category")
		}
		return err
	}

	changed, err := service.repo.DeactivateByPair(ctx, categoryID, filterID)
	if err != nil {
		return err
	}
	if changed {
		service.invalidate(ctx, categoryID)
	}
	return nil
}

/*
List returns the assignments of a category joined with filter details,
ordered by sort_order. With activeOnly false the deactivated history is
included.

Returns:
  - []*Assignment: The category's assignments
  - error: Not-found (unknown category) or persistence failures
*/
func (service *Service) List(ctx context.Context, categoryID string, activeOnly bool) ([]*Assignment, error) {
	if _, err := service.categories.FindByID(ctx, categoryID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Category")
		}
		return nil, err
	}

	return service.repo.ListForCategory(ctx, categoryID, activeOnly)
}

func (service *Service) endpointCategory(ctx context.Context, id string) (*category.Category, error) {
	cat, err := service.categories.FindByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Category")
		}
		return nil, err
	}
	if !cat.IsActive {
		return nil, apperr.NotFound("Category")
	}
	return cat, nil
}

func (service *Service) endpointFilter(ctx context.Context, id string) (*filter.Filter, error) {
	filt, err := service.filters.FindByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Filter")
		}
		return nil, err
	}
	if !filt.IsActive {
		return nil, apperr.NotFound("Filter")
	}
	return filt, nil
}

func (service *Service) invalidate(ctx context.Context, categoryID string) {
	if err := service.cache.InvalidateCategory(ctx, categoryID); err != nil {
		service.logger.Warn("resolution cache invalidation failed", "category_id", categoryID, "error", err)
	}
}
