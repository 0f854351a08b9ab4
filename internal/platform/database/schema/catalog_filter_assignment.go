package schema

// RefFilterAssignmentTable represents the 'catalog.filter_assignment' table
type RefFilterAssignmentTable struct {
	Table         string
	ID            string
	CategoryID    string
	FilterID      string
	CategoryLevel string
	IsRequired    string
	IsActive      string
	SortOrder     string
	AssignedAt    string
	AssignedBy    string
}

// RefFilterAssignment is the schema definition for catalog.filter_assignment
var RefFilterAssignment = RefFilterAssignmentTable{
	Table:         "catalog.filter_assignment",
	ID:            "id",
	CategoryID:    "category_id",
	FilterID:      "filter_id",
	CategoryLevel: "category_level",
	IsRequired:    "is_required",
	IsActive:      "is_active",
	SortOrder:     "sort_order",
	AssignedAt:    "assigned_at",
	AssignedBy:    "assigned_by",
}

func (t RefFilterAssignmentTable) Columns() []string {
	return []string{t.ID, t.CategoryID, t.FilterID, t.CategoryLevel, t.IsRequired, t.IsActive, t.SortOrder, t.AssignedAt, t.AssignedBy}
}
