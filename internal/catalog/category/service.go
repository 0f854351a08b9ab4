// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

package category

import (
	"context"
	"log/slog"

	"github.com/castorie/castorie/internal/platform/apperr"
	"github.com/castorie/castorie/internal/platform/validate"
	"github.com/castorie/castorie/pkg/slug"
	"github.com/castorie/castorie/pkg/uuidv7"
)

// ResolutionInvalidator drops cached filter resolutions for a category.
// Implemented by the resolver cache; a no-op implementation is fine in tests.
type ResolutionInvalidator interface {
	InvalidateCategory(ctx context.Context, categoryID string) error
}

// Service orchestrates business rules for the category tree.
type Service struct {
	repo   Repository
	cache  ResolutionInvalidator
	logger *slog.Logger
}

// NewService constructs a new category [Service].
func NewService(repo Repository, cache ResolutionInvalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

/*
Create validates and persists a new category.

The level/parent invariant is enforced here: level 1 categories must have no
parent, level 2/3 categories must reference an active parent exactly one
level up. Slug collisions against active categories are conflicts.

Returns:
  - *Category: The created category
  - error: Validation, conflict, or persistence failures
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*Category, error) {
	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	validator := &validate.Validator{}
	validator.
		Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 200).
		Range(FieldLevel, input.Level, LevelTop, LevelLeaf).
		Slug(FieldSlug, input.Slug)

	if input.Level == LevelTop && input.ParentID != nil {
		validator.Custom(FieldParentID, true, "Level 1 categories cannot have a parent")
	}
	if input.Level > LevelTop && input.ParentID == nil {
		validator.Custom(FieldParentID, true, "A parent category is required for levels 2 and 3")
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := service.repo.FindByID(ctx, *input.ParentID)
		if err != nil {
			if apperr.IsNotFound(err) {
				return nil, apperr.NotFound("Parent category")
			}
			return nil, err
		}
		if !parent.IsActive {
			return nil, apperr.NotFound("Parent category")
		}
		if parent.Level != input.Level-1 {
			return nil, validate.RequiredError(FieldParentID, "Parent must be exactly one level above the new category")
		}
	}

	inUse, err := service.repo.SlugInUse(ctx, input.Slug, "")
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, apperr.Conflict("Category slug already in use")
	}

	category := &Category{
		ID:        uuidv7.New(),
		Name:      input.Name,
		Slug:      input.Slug,
		Level:     input.Level,
		ParentID:  input.ParentID,
		IsActive:  true,
		SortOrder: input.SortOrder,
	}

	if err := service.repo.Create(ctx, category); err != nil {
		// The partial unique index catches races the pre-check missed.
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("Category slug already in use")
		}
		return nil, err
	}

	service.logger.Info("category_created",
		slog.String("category_id", category.ID),
		slog.String("slug", category.Slug),
		slog.Int("level", category.Level),
	)

	return category, nil
}

// Get retrieves a category by its UUID or slug identifier.
//
// UUIDs have a fixed length of 36 characters in standard hyphenated format.
func (service *Service) Get(ctx context.Context, identifier string) (*Category, error) {
	var found *Category
	var err error

	if len(identifier) == 36 {
		found, err = service.repo.FindByID(ctx, identifier)
	} else {
		found, err = service.repo.FindBySlug(ctx, identifier)
	}

	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Category")
		}
		return nil, err
	}

	return found, nil
}

// List returns categories matching the filter, ordered by (level, sort_order, name).
func (service *Service) List(ctx context.Context, filter ListFilter) ([]*Category, error) {
	return service.repo.List(ctx, filter)
}

// Tree returns the full three-level taxonomy with children nested under parents.
func (service *Service) Tree(ctx context.Context, activeOnly bool) ([]*Category, error) {
	flat, err := service.repo.List(ctx, ListFilter{ActiveOnly: activeOnly})
	if err != nil {
		return nil, err
	}

	// List ordering guarantees parents come before children.
	byID := make(map[string]*Category, len(flat))
	roots := make([]*Category, 0)

	for _, node := range flat {
		byID[node.ID] = node
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := byID[*node.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}

	return roots, nil
}

// Update applies a partial update (name, sort order). Level and parent are
// immutable after creation.
func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*Category, error) {
	found, err := service.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, 200)
		found.Name = *input.Name
	}
	if input.SortOrder != nil {
		found.SortOrder = *input.SortOrder
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(ctx, found); err != nil {
		return nil, err
	}

	return found, nil
}

// Deactivate retires a category. It does not cascade to children or to
// filter assignments; subtrees and bindings are handled explicitly by the
// operator (resolvers treat an inactive category as empty/not-found).
func (service *Service) Deactivate(ctx context.Context, id string) error {
	if err := service.repo.SetActive(ctx, id, false); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("Category")
		}
		return err
	}

	if err := service.cache.InvalidateCategory(ctx, id); err != nil {
		service.logger.Warn("resolver_cache_invalidation_failed",
			slog.String("category_id", id), slog.Any("error", err))
	}

	service.logger.Info("category_deactivated", slog.String("category_id", id))
	return nil
}

// Reactivate brings a retired category back, provided its slug has not been
// claimed by another active category in the meantime.
func (service *Service) Reactivate(ctx context.Context, id string) (*Category, error) {
	found, err := service.repo.FindByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Category")
		}
		return nil, err
	}

	if found.IsActive {
		return found, nil
	}

	inUse, err := service.repo.SlugInUse(ctx, found.Slug, found.ID)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, apperr.Conflict("Category slug already in use by another active category")
	}

	if err := service.repo.SetActive(ctx, id, true); err != nil {
		return nil, err
	}
	found.IsActive = true

	if err := service.cache.InvalidateCategory(ctx, id); err != nil {
		service.logger.Warn("resolver_cache_invalidation_failed",
			slog.String("category_id", id), slog.Any("error", err))
	}

	service.logger.Info("category_reactivated", slog.String("category_id", id))
	return found, nil
}
