// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

package category_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castorie/castorie/internal/catalog/category"
	"github.com/castorie/castorie/internal/platform/apperr"
	"github.com/castorie/castorie/pkg/pointer"
)

// memRepository is an in-memory category.Repository mirroring the storage
// semantics: FindBySlug matches active rows only, and creates collide on
// active slugs the way the partial unique index does.
type memRepository struct {
	categories map[string]*category.Category
}

func newMemRepository() *memRepository {
	return &memRepository{categories: make(map[string]*category.Category)}
}

func (m *memRepository) Create(_ context.Context, c *category.Category) error {
	for _, existing := range m.categories {
		if existing.IsActive && existing.Slug == c.Slug {
			return apperr.Conflict("duplicate slug")
		}
	}
	clone := *c
	m.categories[c.ID] = &clone
	return nil
}

func (m *memRepository) FindByID(_ context.Context, id string) (*category.Category, error) {
	found, ok := m.categories[id]
	if !ok {
		return nil, apperr.NotFound("Resource")
	}
	clone := *found
	return &clone, nil
}

func (m *memRepository) FindBySlug(_ context.Context, slug string) (*category.Category, error) {
	for _, found := range m.categories {
		if found.IsActive && found.Slug == slug {
			clone := *found
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Resource")
}

func (m *memRepository) List(_ context.Context, filter category.ListFilter) ([]*category.Category, error) {
	result := make([]*category.Category, 0)
	for _, found := range m.categories {
		if filter.ActiveOnly && !found.IsActive {
			continue
		}
		if filter.Level != nil && found.Level != *filter.Level {
			continue
		}
		if filter.ParentID != nil && (found.ParentID == nil || *found.ParentID != *filter.ParentID) {
			continue
		}
		clone := *found
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Level != result[j].Level {
			return result[i].Level < result[j].Level
		}
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *memRepository) Update(_ context.Context, c *category.Category) error {
	if _, ok := m.categories[c.ID]; !ok {
		return apperr.NotFound("Resource")
	}
	clone := *c
	m.categories[c.ID] = &clone
	return nil
}

func (m *memRepository) SetActive(_ context.Context, id string, active bool) error {
	found, ok := m.categories[id]
	if !ok {
		return apperr.NotFound("Resource")
	}
	found.IsActive = active
	return nil
}

func (m *memRepository) SlugInUse(_ context.Context, slug string, excludeID string) (bool, error) {
	for _, found := range m.categories {
		if found.IsActive && found.Slug == slug && found.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// memInvalidator records invalidation calls.
type memInvalidator struct {
	invalidated []string
}

func (m *memInvalidator) InvalidateCategory(_ context.Context, categoryID string) error {
	m.invalidated = append(m.invalidated, categoryID)
	return nil
}

func newService() (*category.Service, *memRepository, *memInvalidator) {
	repo := newMemRepository()
	cache := &memInvalidator{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return category.NewService(repo, cache, logger), repo, cache
}

func mustCreate(t *testing.T, service *category.Service, input category.CreateInput) *category.Category {
	t.Helper()
	created, err := service.Create(context.Background(), input)
	require.NoError(t, err)
	return created
}

/*
TestCategory_Create_LevelParentInvariant verifies that the level/parent
combinations of the three-level tree are enforced at create time.
*/
func TestCategory_Create_LevelParentInvariant(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	men := mustCreate(t, service, category.CreateInput{Name: "Men", Slug: "men", Level: 1})
	clothing := mustCreate(t, service, category.CreateInput{
		Name: "Clothing", Slug: "men-clothing", Level: 2, ParentID: &men.ID,
	})

	tests := []struct {
		name  string
		input category.CreateInput
	}{
		{"level_1_with_parent", category.CreateInput{
			Name: "Women", Slug: "women", Level: 1, ParentID: &men.ID,
		}},
		{"level_2_without_parent", category.CreateInput{
			Name: "Shoes", Slug: "shoes", Level: 2,
		}},
		{"level_3_under_level_1", category.CreateInput{
			Name: "T-Shirts", Slug: "tshirts", Level: 3, ParentID: &men.ID,
		}},
		{"level_out_of_range", category.CreateInput{
			Name: "Deep", Slug: "deep", Level: 4, ParentID: &clothing.ID,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, tt.input)
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}

	// The valid chain still works.
	tshirts := mustCreate(t, service, category.CreateInput{
		Name: "T-Shirts", Slug: "men-clothing-tshirts", Level: 3, ParentID: &clothing.ID,
	})
	assert.Equal(t, 3, tshirts.Level)
}

/*
TestCategory_Create_ParentChecks verifies the parent existence, activity,
and level-distance rules.
*/
func TestCategory_Create_ParentChecks(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	men := mustCreate(t, service, category.CreateInput{Name: "Men", Slug: "men", Level: 1})

	t.Run("unknown_parent", func(t *testing.T) {
		_, err := service.Create(ctx, category.CreateInput{
			Name: "Clothing", Slug: "x-clothing", Level: 2,
			ParentID: pointer.To("0190a8c2-7f3e-7cc1-a9b5-3f6f2d1e0b4a"),
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("parent_two_levels_up", func(t *testing.T) {
		_, err := service.Create(ctx, category.CreateInput{
			Name: "T-Shirts", Slug: "x-tshirts", Level: 3, ParentID: &men.ID,
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("inactive_parent", func(t *testing.T) {
		require.NoError(t, service.Deactivate(ctx, men.ID))
		_, err := service.Create(ctx, category.CreateInput{
			Name: "Clothing", Slug: "y-clothing", Level: 2, ParentID: &men.ID,
		})
		assert.True(t, apperr.IsNotFound(err))
	})
}

/*
TestCategory_Create_SlugConflict verifies slug uniqueness among active
categories, and that a deactivated category frees its slug.
*/
func TestCategory_Create_SlugConflict(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	men := mustCreate(t, service, category.CreateInput{Name: "Men", Slug: "men", Level: 1})

	_, err := service.Create(ctx, category.CreateInput{Name: "Men 2", Slug: "men", Level: 1})
	assert.True(t, apperr.IsConflict(err))

	// Deactivation frees the slug for a new active category.
	require.NoError(t, service.Deactivate(ctx, men.ID))
	_, err = service.Create(ctx, category.CreateInput{Name: "Men 2", Slug: "men", Level: 1})
	assert.NoError(t, err)

	// And blocks reactivating the old record.
	_, err = service.Reactivate(ctx, men.ID)
	assert.True(t, apperr.IsConflict(err))
}

/*
TestCategory_Get resolves by UUID and by slug through one endpoint.
*/
func TestCategory_Get(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	men := mustCreate(t, service, category.CreateInput{Name: "Men", Slug: "men", Level: 1})

	byID, err := service.Get(ctx, men.ID)
	require.NoError(t, err)
	assert.Equal(t, men.ID, byID.ID)

	bySlug, err := service.Get(ctx, "men")
	require.NoError(t, err)
	assert.Equal(t, men.ID, bySlug.ID)

	_, err = service.Get(ctx, "unknown-slug")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestCategory_Tree nests children under parents and respects active_only.
*/
func TestCategory_Tree(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	men := mustCreate(t, service, category.CreateInput{Name: "Men", Slug: "men", Level: 1, SortOrder: 1})
	women := mustCreate(t, service, category.CreateInput{Name: "Women", Slug: "women", Level: 1, SortOrder: 2})
	clothing := mustCreate(t, service, category.CreateInput{
		Name: "Clothing", Slug: "men-clothing", Level: 2, ParentID: &men.ID,
	})
	mustCreate(t, service, category.CreateInput{
		Name: "T-Shirts", Slug: "men-clothing-tshirts", Level: 3, ParentID: &clothing.ID,
	})

	roots, err := service.Tree(ctx, false)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, men.ID, roots[0].ID)
	assert.Equal(t, women.ID, roots[1].ID)
	require.Len(t, roots[0].Children, 1)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "men-clothing-tshirts", roots[0].Children[0].Children[0].Slug)

	// Deactivated nodes drop out of the active-only tree along with their
	// orphaned subtree.
	require.NoError(t, service.Deactivate(ctx, clothing.ID))
	roots, err = service.Tree(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, roots[0].Children)
}

/*
TestCategory_Deactivate_NoCascade pins down that deactivating a parent
leaves its children active. Subtree handling is an explicit operator action.
*/
func TestCategory_Deactivate_NoCascade(t *testing.T) {
	service, repo, cache := newService()
	ctx := context.Background()

	men := mustCreate(t, service, category.CreateInput{Name: "Men", Slug: "men", Level: 1})
	clothing := mustCreate(t, service, category.CreateInput{
		Name: "Clothing", Slug: "men-clothing", Level: 2, ParentID: &men.ID,
	})

	require.NoError(t, service.Deactivate(ctx, men.ID))

	child, err := repo.FindByID(ctx, clothing.ID)
	require.NoError(t, err)
	assert.True(t, child.IsActive)

	// The mutation invalidated the deactivated category's resolution only.
	assert.Equal(t, []string{men.ID}, cache.invalidated)
}

/*
TestCategory_Update verifies partial updates and the immutability of level
and parent.
*/
func TestCategory_Update(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	men := mustCreate(t, service, category.CreateInput{Name: "Men", Slug: "men", Level: 1})

	updated, err := service.Update(ctx, men.ID, category.UpdateInput{
		Name:      pointer.To("Menswear"),
		SortOrder: pointer.To(9),
	})
	require.NoError(t, err)
	assert.Equal(t, "Menswear", updated.Name)
	assert.Equal(t, 9, updated.SortOrder)
	assert.Equal(t, 1, updated.Level)

	_, err = service.Update(ctx, men.ID, category.UpdateInput{Name: pointer.To("")})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}
