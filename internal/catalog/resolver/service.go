// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/castorie/castorie/internal/catalog/assignment"
	"github.com/castorie/castorie/internal/catalog/category"
	"github.com/castorie/castorie/internal/catalog/filter"
	"github.com/castorie/castorie/internal/platform/apperr"
	"github.com/castorie/castorie/internal/platform/validate"
	"github.com/castorie/castorie/pkg/slice"
)

// CategorySource looks up categories by id and by slug.
// FindBySlug only matches active categories.
type CategorySource interface {
	FindByID(ctx context.Context, id string) (*category.Category, error)
	FindBySlug(ctx context.Context, slug string) (*category.Category, error)
}

// FilterSource lists the filter catalog.
type FilterSource interface {
	List(ctx context.Context, activeOnly bool) ([]*filter.Filter, error)
}

// AssignmentSource reads the category-to-filter edges.
type AssignmentSource interface {
	ListForCategory(ctx context.Context, categoryID string, activeOnly bool) ([]*assignment.Assignment, error)
	ActiveFilterIDs(ctx context.Context, categoryID string) ([]string, error)
}

// ResolutionCache caches resolutions per category. Get returns nil on a miss.
type ResolutionCache interface {
	Get(ctx context.Context, categoryID string) (*Resolution, error)
	Set(ctx context.Context, resolution *Resolution) error
}

// Service computes effective and available filter sets.
type Service struct {
	categories  CategorySource
	filters     FilterSource
	assignments AssignmentSource
	cache       ResolutionCache
	logger      *slog.Logger
}

// NewService constructs a new resolver [Service].
func NewService(categories CategorySource, filters FilterSource, assignments AssignmentSource, cache ResolutionCache, logger *slog.Logger) *Service {
	return &Service{
		categories:  categories,
		filters:     filters,
		assignments: assignments,
		cache:       cache,
		logger:      logger,
	}
}

/*
EffectiveFilters resolves the filter set for the most specific category in
the slug path.

The path is validated as a chain: each element must name an active category at
its level whose parent is the previous path element. A broken chain is a
not-found, never a partial resolution. The resolved set contains only the
target category's own active assignments to active filters; ancestors
contribute nothing.

Returns:
  - *Resolution: Required and optional filters, both ordered by sort order
    then display name
  - error: Validation, not-found, or persistence failures
*/
func (service *Service) EffectiveFilters(ctx context.Context, path Path) (*Resolution, error) {
	validator := &validate.Validator{}
	validator.Required("l1", path.L1)
	validator.Custom("l3", path.L3 != "" && path.L2 == "", "l3 requires l2")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	target, err := service.resolvePath(ctx, path)
	if err != nil {
		return nil, err
	}

	return service.EffectiveFiltersForCategory(ctx, target.ID)
}

/*
EffectiveFiltersForCategory resolves the filter set for one category by id,
consulting the cache first.

Returns:
  - *Resolution: The category's effective filter set
  - error: Not-found (missing or inactive category) or persistence failures
*/
func (service *Service) EffectiveFiltersForCategory(ctx context.Context, categoryID string) (*Resolution, error) {
	cached, err := service.cache.Get(ctx, categoryID)
	if err != nil {
		service.logger.Warn("resolution cache read failed", "category_id", categoryID, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	cat, err := service.categories.FindByID(ctx, categoryID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Category")
		}
		return nil, err
	}
	if !cat.IsActive {
		return nil, apperr.NotFound("Category")
	}

	assignments, err := service.assignments.ListForCategory(ctx, categoryID, true)
	if err != nil {
		return nil, err
	}

	resolution := &Resolution{
		CategoryID:    cat.ID,
		CategorySlug:  cat.Slug,
		CategoryLevel: cat.Level,
		Required:      make([]*ResolvedFilter, 0),
		Optional:      make([]*ResolvedFilter, 0),
		ResolvedAt:    time.Now().UTC(),
	}

	for _, a := range assignments {
		// Deactivated filters drop out of resolution while their
		// assignment records stay in place.
		if a.Filter == nil || !a.Filter.IsActive {
			continue
		}
		resolved := &ResolvedFilter{
			FilterID:    a.FilterID,
			Name:        a.Filter.Name,
			DisplayName: a.Filter.DisplayName,
			ValueType:   a.Filter.ValueType,
			Options:     a.Filter.Options,
			IsRequired:  a.IsRequired,
			SortOrder:   a.SortOrder,
		}
		if a.IsRequired {
			resolution.Required = append(resolution.Required, resolved)
		} else {
			resolution.Optional = append(resolution.Optional, resolved)
		}
	}

	if err := service.cache.Set(ctx, resolution); err != nil {
		service.logger.Warn("resolution cache write failed", "category_id", categoryID, "error", err)
	}

	return resolution, nil
}

/*
AvailableFilters lists the active filters not yet actively assigned to a
category, in catalog order. Operators use this to pick what to bind next.

An inactive category has nothing to bind, so it yields an empty set rather
than an error; only an unknown id is a not-found.

Returns:
  - []*filter.Filter: Active, unassigned filters
  - error: Not-found (unknown category) or persistence failures
*/
func (service *Service) AvailableFilters(ctx context.Context, categoryID string) ([]*filter.Filter, error) {
	cat, err := service.categories.FindByID(ctx, categoryID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Category")
		}
		return nil, err
	}
	if !cat.IsActive {
		return []*filter.Filter{}, nil
	}

	assignedIDs, err := service.assignments.ActiveFilterIDs(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	assigned := make(map[string]bool, len(assignedIDs))
	for _, id := range assignedIDs {
		assigned[id] = true
	}

	catalog, err := service.filters.List(ctx, true)
	if err != nil {
		return nil, err
	}

	available := slice.Filter(catalog, func(f *filter.Filter) bool {
		return !assigned[f.ID]
	})
	if available == nil {
		available = []*filter.Filter{}
	}
	return available, nil
}

// resolvePath walks the path chain down to the most specific category.
func (service *Service) resolvePath(ctx context.Context, path Path) (*category.Category, error) {
	target, err := service.pathElement(ctx, path.L1, category.LevelTop, nil)
	if err != nil {
		return nil, err
	}

	if path.L2 != "" {
		target, err = service.pathElement(ctx, path.L2, category.LevelMid, target)
		if err != nil {
			return nil, err
		}
	}
	if path.L3 != "" {
		target, err = service.pathElement(ctx, path.L3, category.LevelLeaf, target)
		if err != nil {
			return nil, err
		}
	}

	return target, nil
}

// pathElement resolves one path segment, which may be a category id or a
// slug. UUIDs have a fixed length of 36 characters in hyphenated format.
func (service *Service) pathElement(ctx context.Context, identifier string, level int, parent *category.Category) (*category.Category, error) {
	var found *category.Category
	var err error

	if len(identifier) == 36 {
		found, err = service.categories.FindByID(ctx, identifier)
	} else {
		found, err = service.categories.FindBySlug(ctx, identifier)
	}

	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Category")
		}
		return nil, err
	}
	if !found.IsActive || found.Level != level {
		return nil, apperr.NotFound("Category")
	}
	if parent != nil && (found.ParentID == nil || *found.ParentID != parent.ID) {
		return nil, apperr.NotFound("Category")
	}
	return found, nil
}
