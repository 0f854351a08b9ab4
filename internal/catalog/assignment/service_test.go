// Copyright (c) 2026 Castorie. All rights reserved.
// Author: platform@castorie.dev

package assignment_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castorie/castorie/internal/catalog/assignment"
	"github.com/castorie/castorie/internal/catalog/category"
	"github.com/castorie/castorie/internal/catalog/filter"
	"github.com/castorie/castorie/internal/platform/apperr"
	"github.com/castorie/castorie/pkg/uuidv7"
)

const operatorID = "0190a8c2-0000-7cc1-a9b5-3f6f2d1e0b4a"

// memRepository is an in-memory assignment.Repository enforcing the
// at-most-one-active invariant the way the partial unique index does.
type memRepository struct {
	assignments map[string]*assignment.Assignment
	failOn      string // filter id whose insert fails, for rollback tests
}

func newMemRepository() *memRepository {
	return &memRepository{assignments: make(map[string]*assignment.Assignment)}
}

func (m *memRepository) FindByPair(_ context.Context, categoryID, filterID string) (*assignment.Assignment, error) {
	for _, a := range m.assignments {
		if a.CategoryID == categoryID && a.FilterID == filterID {
			clone := *a
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Resource")
}

func (m *memRepository) Insert(_ context.Context, a *assignment.Assignment) (bool, error) {
	if a.FilterID == m.failOn {
		return false, apperr.Internal(assert.AnError)
	}
	for _, existing := range m.assignments {
		if existing.CategoryID == a.CategoryID && existing.FilterID == a.FilterID && existing.IsActive {
			return false, nil
		}
	}
	a.IsActive = true
	a.AssignedAt = time.Now().UTC()
	clone := *a
	m.assignments[a.ID] = &clone
	return true, nil
}

func (m *memRepository) Reactivate(_ context.Context, id string, isRequired bool, sortOrder int, assignedBy string) (*assignment.Assignment, error) {
	found, ok := m.assignments[id]
	if !ok {
		return nil, apperr.NotFound("Resource")
	}
	found.IsActive = true
	found.IsRequired = isRequired
	found.SortOrder = sortOrder
	found.AssignedBy = assignedBy
	found.AssignedAt = time.Now().UTC()
	clone := *found
	return &clone, nil
}

func (m *memRepository) DeactivateByPair(_ context.Context, categoryID, filterID string) (bool, error) {
	for _, a := range m.assignments {
		if a.CategoryID == categoryID && a.FilterID == filterID && a.IsActive {
			a.IsActive = false
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepository) DeactivateByID(_ context.Context, id string) error {
	found, ok := m.assignments[id]
	if !ok {
		return apperr.NotFound("Resource")
	}
	found.IsActive = false
	return nil
}

func (m *memRepository) ListForCategory(_ context.Context, categoryID string, activeOnly bool) ([]*assignment.Assignment, error) {
	result := make([]*assignment.Assignment, 0)
	for _, a := range m.assignments {
		if a.CategoryID != categoryID {
			continue
		}
		if activeOnly && !a.IsActive {
			continue
		}
		clone := *a
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SortOrder < result[j].SortOrder
	})
	return result, nil
}

func (m *memRepository) ActiveFilterIDs(_ context.Context, categoryID string) ([]string, error) {
	ids := make([]string, 0)
	for _, a := range m.assignments {
		if a.CategoryID == categoryID && a.IsActive {
			ids = append(ids, a.FilterID)
		}
	}
	return ids, nil
}

func (m *memRepository) FilterHasAssignments(_ context.Context, filterID string) (bool, error) {
	for _, a := range m.assignments {
		if a.FilterID == filterID {
			return true, nil
		}
	}
	return false, nil
}

// activeCount counts active records for a pair, for invariant assertions.
func (m *memRepository) activeCount(categoryID, filterID string) int {
	count := 0
	for _, a := range m.assignments {
		if a.CategoryID == categoryID && a.FilterID == filterID && a.IsActive {
			count++
		}
	}
	return count
}

type memCategories struct {
	categories map[string]*category.Category
}

func (m *memCategories) FindByID(_ context.Context, id string) (*category.Category, error) {
	found, ok := m.categories[id]
	if !ok {
		return nil, apperr.NotFound("Resource")
	}
	return found, nil
}

type memFilters struct {
	filters map[string]*filter.Filter
}

func (m *memFilters) FindByID(_ context.Context, id string) (*filter.Filter, error) {
	found, ok := m.filters[id]
	if !ok {
		return nil, apperr.NotFound("Resource")
	}
	return found, nil
}

func (m *memFilters) FindByIDs(_ context.Context, ids []string) ([]*filter.Filter, error) {
	result := make([]*filter.Filter, 0, len(ids))
	for _, id := range ids {
		if found, ok := m.filters[id]; ok {
			result = append(result, found)
		}
	}
	return result, nil
}

type memInvalidator struct {
	invalidated []string
}

func (m *memInvalidator) InvalidateCategory(_ context.Context, categoryID string) error {
	m.invalidated = append(m.invalidated, categoryID)
	return nil
}

type fixture struct {
	service    *assignment.Service
	repo       *memRepository
	cache      *memInvalidator
	tshirts    *category.Category
	inactive   *category.Category
	size       *filter.Filter
	sleeve     *filter.Filter
	deprecated *filter.Filter
}

func newFixture() *fixture {
	tshirts := &category.Category{ID: uuidv7.New(), Name: "T-Shirts", Slug: "tshirts", Level: 3, IsActive: true}
	inactive := &category.Category{ID: uuidv7.New(), Name: "Retired", Slug: "retired", Level: 3, IsActive: false}
	size := &filter.Filter{ID: uuidv7.New(), Name: "size", DisplayName: "Size", ValueType: filter.MultiSelect, IsActive: true}
	sleeve := &filter.Filter{ID: uuidv7.New(), Name: "sleeve-length", DisplayName: "Sleeve Length", ValueType: filter.SingleSelect, IsActive: true}
	deprecated := &filter.Filter{ID: uuidv7.New(), Name: "old", DisplayName: "Old", ValueType: filter.Boolean, IsActive: false}

	repo := newMemRepository()
	cache := &memInvalidator{}
	service := assignment.NewService(
		repo,
		&memCategories{categories: map[string]*category.Category{tshirts.ID: tshirts, inactive.ID: inactive}},
		&memFilters{filters: map[string]*filter.Filter{size.ID: size, sleeve.ID: sleeve, deprecated.ID: deprecated}},
		cache,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	return &fixture{
		service: service, repo: repo, cache: cache,
		tshirts: tshirts, inactive: inactive,
		size: size, sleeve: sleeve, deprecated: deprecated,
	}
}

/*
TestAssign_Idempotent verifies that assigning the same pair twice yields one
active record with unchanged content.
*/
func TestAssign_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	input := assignment.AssignInput{FilterID: f.size.ID, IsRequired: true, SortOrder: 1}

	first, err := f.service.Assign(ctx, f.tshirts.ID, input, operatorID)
	require.NoError(t, err)
	assert.True(t, first.IsActive)
	assert.Equal(t, f.tshirts.Level, first.CategoryLevel)
	assert.Equal(t, operatorID, first.AssignedBy)

	second, err := f.service.Assign(ctx, f.tshirts.ID, input, operatorID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.IsRequired, second.IsRequired)
	assert.Equal(t, first.SortOrder, second.SortOrder)
	assert.Equal(t, 1, f.repo.activeCount(f.tshirts.ID, f.size.ID))
}

/*
TestAssign_ReactivatesDeactivatedPair verifies that re-binding a previously
unbound pair updates the existing record instead of creating a duplicate.
*/
func TestAssign_ReactivatesDeactivatedPair(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.service.Assign(ctx, f.tshirts.ID, assignment.AssignInput{
		FilterID: f.size.ID, IsRequired: true, SortOrder: 1,
	}, operatorID)
	require.NoError(t, err)

	require.NoError(t, f.service.Unassign(ctx, f.tshirts.ID, f.size.ID))

	rebound, err := f.service.Assign(ctx, f.tshirts.ID, assignment.AssignInput{
		FilterID: f.size.ID, IsRequired: false, SortOrder: 7,
	}, operatorID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, rebound.ID)
	assert.False(t, rebound.IsRequired)
	assert.Equal(t, 7, rebound.SortOrder)
	assert.Len(t, f.repo.assignments, 1)
	assert.Equal(t, 1, f.repo.activeCount(f.tshirts.ID, f.size.ID))
}

/*
TestAssign_EndpointChecks verifies that both endpoints must exist and be
active, surfaced as not-found either way.
*/
func TestAssign_EndpointChecks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name       string
		categoryID string
		filterID   string
	}{
		{"unknown_category", uuidv7.New(), f.size.ID},
		{"inactive_category", f.inactive.ID, f.size.ID},
		{"unknown_filter", f.tshirts.ID, uuidv7.New()},
		{"inactive_filter", f.tshirts.ID, f.deprecated.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Assign(ctx, tt.categoryID, assignment.AssignInput{FilterID: tt.filterID}, operatorID)
			assert.True(t, apperr.IsNotFound(err))
		})
	}

	assert.Empty(t, f.repo.assignments)
}

/*
TestAssign_ConcurrentLoserReturnsWinner verifies convergence when the
storage insert loses a race: the caller still gets the single active record.
*/
func TestAssign_ConcurrentLoserReturnsWinner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Simulate the winner landing between validation and insert.
	winner := &assignment.Assignment{
		ID: uuidv7.New(), CategoryID: f.tshirts.ID, FilterID: f.size.ID,
		CategoryLevel: 3, IsActive: true, AssignedBy: operatorID,
	}
	f.repo.assignments[winner.ID] = winner

	got, err := f.service.Assign(ctx, f.tshirts.ID, assignment.AssignInput{
		FilterID: f.size.ID, IsRequired: true,
	}, operatorID)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
	assert.Equal(t, 1, f.repo.activeCount(f.tshirts.ID, f.size.ID))
}

/*
TestUnassign verifies deactivate-not-delete semantics and that unassigning
an unbound pair is a no-op.
*/
func TestUnassign(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Assign(ctx, f.tshirts.ID, assignment.AssignInput{FilterID: f.size.ID}, operatorID)
	require.NoError(t, err)

	require.NoError(t, f.service.Unassign(ctx, f.tshirts.ID, f.size.ID))

	// The record survives, deactivated.
	assert.Len(t, f.repo.assignments, 1)
	assert.Equal(t, 0, f.repo.activeCount(f.tshirts.ID, f.size.ID))

	// Repeating is a no-op, and only the real change invalidated the cache.
	require.NoError(t, f.service.Unassign(ctx, f.tshirts.ID, f.size.ID))
	assert.Equal(t, []string{f.tshirts.ID, f.tshirts.ID}, f.cache.invalidated)

	// Unknown category is still an error.
	err = f.service.Unassign(ctx, uuidv7.New(), f.size.ID)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestBulkAssign_AllOrNothing verifies that one invalid entry fails the whole
batch with zero new active assignments.
*/
func TestBulkAssign_AllOrNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	entries := []assignment.AssignInput{
		{FilterID: f.size.ID, IsRequired: true, SortOrder: 1},
		{FilterID: uuidv7.New(), SortOrder: 2}, // unknown filter
		{FilterID: f.sleeve.ID, SortOrder: 3},
	}

	_, err := f.service.BulkAssign(ctx, f.tshirts.ID, entries, operatorID)
	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, f.repo.assignments)
	assert.Empty(t, f.cache.invalidated)
}

/*
TestBulkAssign_RollbackOnWriteFailure verifies the compensation path: a
mid-batch storage failure deactivates the records this call wrote.
*/
func TestBulkAssign_RollbackOnWriteFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.failOn = f.sleeve.ID

	entries := []assignment.AssignInput{
		{FilterID: f.size.ID, IsRequired: true, SortOrder: 1},
		{FilterID: f.sleeve.ID, SortOrder: 2},
	}

	_, err := f.service.BulkAssign(ctx, f.tshirts.ID, entries, operatorID)
	require.Error(t, err)

	assert.Equal(t, 0, f.repo.activeCount(f.tshirts.ID, f.size.ID))
	assert.Equal(t, 0, f.repo.activeCount(f.tshirts.ID, f.sleeve.ID))
}

/*
TestBulkAssign_Succeeds verifies the happy path and the duplicate-entry
batch validation.
*/
func TestBulkAssign_Succeeds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.BulkAssign(ctx, f.tshirts.ID, []assignment.AssignInput{
		{FilterID: f.size.ID}, {FilterID: f.size.ID},
	}, operatorID)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	results, err := f.service.BulkAssign(ctx, f.tshirts.ID, []assignment.AssignInput{
		{FilterID: f.size.ID, IsRequired: true, SortOrder: 1},
		{FilterID: f.sleeve.ID, SortOrder: 2},
	}, operatorID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, f.repo.activeCount(f.tshirts.ID, f.size.ID))
	assert.Equal(t, 1, f.repo.activeCount(f.tshirts.ID, f.sleeve.ID))

	// One invalidation for the whole batch.
	assert.Equal(t, []string{f.tshirts.ID}, f.cache.invalidated)
}
