package assignment

import "context"

type Repository interface {
	// FindByPair returns the assignment for the pair regardless of status.
	FindByPair(context context.Context, categoryID, filterID string) (*Assignment, error)

	// Insert creates a new assignment. It reports false without error when a
	// concurrent writer already created the active record for the pair.
	Insert(context context.Context, assignment *Assignment) (bool, error)

	// Reactivate re-enables an inactive assignment, refreshing its metadata.
	Reactivate(context context.Context, id string, isRequired bool, sortOrder int, assignedBy string) (*Assignment, error)

	// DeactivateByPair disables the active assignment for the pair.
	// It reports whether a record was actually deactivated.
	DeactivateByPair(context context.Context, categoryID, filterID string) (bool, error)

	// DeactivateByID disables a specific assignment record.
	DeactivateByID(context context.Context, id string) error

	// ListForCategory returns assignments joined with their filter details,
	// ordered by sort_order.
	ListForCategory(context context.Context, categoryID string, activeOnly bool) ([]*Assignment, error)

	// ActiveFilterIDs returns the filter ids actively assigned to a category.
	ActiveFilterIDs(context context.Context, categoryID string) ([]string, error)

	// FilterHasAssignments reports whether any assignment, active or not,
	// references the filter.
	FilterHasAssignments(context context.Context, filterID string) (bool, error)
}
