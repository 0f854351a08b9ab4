package schema

// RefFilterTable represents the 'catalog.filter' table
type RefFilterTable struct {
	Table       string
	ID          string
	Name        string
	DisplayName string
	ValueType   string
	Options     string
	IsActive    string
	SortOrder   string
	CreatedAt   string
	UpdatedAt   string
}

// RefFilter is the schema definition for catalog.filter
var RefFilter = RefFilterTable{
	Table:       "catalog.filter",
	ID:          "id",
	Name:        "name",
	DisplayName: "display_name",
	ValueType:   "value_type",
	Options:     "options",
	IsActive:    "is_active",
	SortOrder:   "sort_order",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

func (t RefFilterTable) Columns() []string {
	return []string{t.ID, t.Name, t.DisplayName, t.ValueType, t.Options, t.IsActive, t.SortOrder, t.CreatedAt, t.UpdatedAt}
}
