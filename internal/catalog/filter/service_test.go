// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

package filter_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castorie/castorie/internal/catalog/filter"
	"github.com/castorie/castorie/internal/platform/apperr"
	"github.com/castorie/castorie/pkg/pagination"
	"github.com/castorie/castorie/pkg/pointer"
)

// memRepository is an in-memory filter.Repository with unique-name
// semantics matching the storage layer.
type memRepository struct {
	filters map[string]*filter.Filter
}

func newMemRepository() *memRepository {
	return &memRepository{filters: make(map[string]*filter.Filter)}
}

func (m *memRepository) Create(_ context.Context, f *filter.Filter) error {
	for _, existing := range m.filters {
		if existing.Name == f.Name {
			return apperr.Conflict("duplicate name")
		}
	}
	clone := *f
	m.filters[f.ID] = &clone
	return nil
}

func (m *memRepository) FindByID(_ context.Context, id string) (*filter.Filter, error) {
	found, ok := m.filters[id]
	if !ok {
		return nil, apperr.NotFound("Resource")
	}
	clone := *found
	return &clone, nil
}

func (m *memRepository) FindByIDs(_ context.Context, ids []string) ([]*filter.Filter, error) {
	result := make([]*filter.Filter, 0, len(ids))
	for _, id := range ids {
		if found, ok := m.filters[id]; ok {
			clone := *found
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (m *memRepository) List(_ context.Context, activeOnly bool) ([]*filter.Filter, error) {
	result := make([]*filter.Filter, 0)
	for _, found := range m.filters {
		if activeOnly && !found.IsActive {
			continue
		}
		clone := *found
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].DisplayName < result[j].DisplayName
	})
	return result, nil
}

func (m *memRepository) ListPaged(ctx context.Context, activeOnly bool, params pagination.Params) ([]*filter.Filter, int, error) {
	all, err := m.List(ctx, activeOnly)
	if err != nil {
		return nil, 0, err
	}
	start := params.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + params.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (m *memRepository) Update(_ context.Context, f *filter.Filter) error {
	if _, ok := m.filters[f.ID]; !ok {
		return apperr.NotFound("Resource")
	}
	clone := *f
	m.filters[f.ID] = &clone
	return nil
}

func (m *memRepository) SetActive(_ context.Context, id string, active bool) error {
	found, ok := m.filters[id]
	if !ok {
		return apperr.NotFound("Resource")
	}
	found.IsActive = active
	return nil
}

// memChecker fakes the assignment lookup.
type memChecker struct {
	assigned map[string]bool
}

func (m *memChecker) FilterHasAssignments(_ context.Context, filterID string) (bool, error) {
	return m.assigned[filterID], nil
}

// memInvalidator counts full cache flushes.
type memInvalidator struct {
	flushes int
}

func (m *memInvalidator) InvalidateAll(_ context.Context) error {
	m.flushes++
	return nil
}

func newService() (*filter.Service, *memChecker, *memInvalidator) {
	checker := &memChecker{assigned: make(map[string]bool)}
	cache := &memInvalidator{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return filter.NewService(newMemRepository(), checker, cache, logger), checker, cache
}

func sizeOptions() []filter.Option {
	return []filter.Option{
		{Value: "s", DisplayValue: "S"},
		{Value: "m", DisplayValue: "M"},
		{Value: "l", DisplayValue: "L"},
		{Value: "xl", DisplayValue: "XL"},
	}
}

/*
TestFilter_Create_OptionRules verifies the option-set rules per value type.
*/
func TestFilter_Create_OptionRules(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	tests := []struct {
		name  string
		input filter.CreateInput
	}{
		{"select_without_options", filter.CreateInput{
			Name: "size", DisplayName: "Size", ValueType: filter.MultiSelect,
		}},
		{"boolean_with_options", filter.CreateInput{
			Name: "waterproof", DisplayName: "Waterproof", ValueType: filter.Boolean,
			Options: sizeOptions(),
		}},
		{"unknown_value_type", filter.CreateInput{
			Name: "size", DisplayName: "Size", ValueType: filter.ValueType("ranked"),
		}},
		{"duplicate_option_values", filter.CreateInput{
			Name: "size", DisplayName: "Size", ValueType: filter.MultiSelect,
			Options: []filter.Option{{Value: "s", DisplayValue: "S"}, {Value: "s", DisplayValue: "Small"}},
		}},
		{"empty_option_value", filter.CreateInput{
			Name: "size", DisplayName: "Size", ValueType: filter.MultiSelect,
			Options: []filter.Option{{Value: "", DisplayValue: "S"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, tt.input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}

	created, err := service.Create(ctx, filter.CreateInput{
		Name: "size", DisplayName: "Size", ValueType: filter.MultiSelect, Options: sizeOptions(),
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, []string{"s", "m", "l", "xl"}, created.OptionValues())
}

/*
TestFilter_Create_NameConflict verifies machine-name uniqueness.
*/
func TestFilter_Create_NameConflict(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	_, err := service.Create(ctx, filter.CreateInput{
		Name: "size", DisplayName: "Size", ValueType: filter.MultiSelect, Options: sizeOptions(),
	})
	require.NoError(t, err)

	_, err = service.Create(ctx, filter.CreateInput{
		Name: "size", DisplayName: "Size 2", ValueType: filter.SingleSelect, Options: sizeOptions(),
	})
	assert.True(t, apperr.IsConflict(err))
}

/*
TestFilter_Update_AppendOnlyOptions verifies that an assigned filter's
options may grow but never shrink, while an unassigned filter stays freely
editable.
*/
func TestFilter_Update_AppendOnlyOptions(t *testing.T) {
	service, checker, _ := newService()
	ctx := context.Background()

	created, err := service.Create(ctx, filter.CreateInput{
		Name: "size", DisplayName: "Size", ValueType: filter.MultiSelect, Options: sizeOptions(),
	})
	require.NoError(t, err)

	// Unassigned: shrinking is allowed.
	smaller := []filter.Option{{Value: "s", DisplayValue: "S"}, {Value: "m", DisplayValue: "M"}}
	updated, err := service.Update(ctx, created.ID, filter.UpdateInput{Options: smaller})
	require.NoError(t, err)
	assert.Len(t, updated.Options, 2)

	// Assigned: removing an option is rejected.
	checker.assigned[created.ID] = true
	_, err = service.Update(ctx, created.ID, filter.UpdateInput{
		Options: []filter.Option{{Value: "s", DisplayValue: "S"}},
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	// Assigned: appending is fine.
	grown := append(smaller, filter.Option{Value: "xxl", DisplayValue: "XXL"})
	updated, err = service.Update(ctx, created.ID, filter.UpdateInput{Options: grown})
	require.NoError(t, err)
	assert.True(t, updated.HasOption("xxl"))
}

/*
TestFilter_Mutations_FlushCache verifies that filter mutations flush the
whole resolution cache: a filter may be assigned anywhere.
*/
func TestFilter_Mutations_FlushCache(t *testing.T) {
	service, _, cache := newService()
	ctx := context.Background()

	created, err := service.Create(ctx, filter.CreateInput{
		Name: "size", DisplayName: "Size", ValueType: filter.MultiSelect, Options: sizeOptions(),
	})
	require.NoError(t, err)

	_, err = service.Update(ctx, created.ID, filter.UpdateInput{DisplayName: pointer.To("Sizing")})
	require.NoError(t, err)
	require.NoError(t, service.Deactivate(ctx, created.ID))
	_, err = service.Reactivate(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, cache.flushes)
}

/*
TestFilter_Deactivate_UnknownID maps a missing filter to not-found.
*/
func TestFilter_Deactivate_UnknownID(t *testing.T) {
	service, _, _ := newService()

	err := service.Deactivate(context.Background(), "0190a8c2-7f3e-7cc1-a9b5-3f6f2d1e0b4a")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestFilter_ListPaged verifies page slicing and the response metadata.
*/
func TestFilter_ListPaged(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("filter-%d", i)
		_, err := service.Create(ctx, filter.CreateInput{
			Name: name, DisplayName: name, ValueType: filter.Boolean, SortOrder: i,
		})
		require.NoError(t, err)
	}

	page, meta, err := service.ListPaged(ctx, true, pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "filter-2", page[0].Name)
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 2, Total: 5, TotalPages: 3}, meta)

	// Past the last page.
	empty, _, err := service.ListPaged(ctx, true, pagination.Params{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, empty)
}
