package schema

// RefCategoryTable represents the 'catalog.category' table
type RefCategoryTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	Level     string
	ParentID  string
	IsActive  string
	SortOrder string
	CreatedAt string
	UpdatedAt string
}

// RefCategory is the schema definition for catalog.category
var RefCategory = RefCategoryTable{
	Table:     "catalog.category",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	Level:     "level",
	ParentID:  "parent_id",
	IsActive:  "is_active",
	SortOrder: "sort_order",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

func (t RefCategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug, t.Level, t.ParentID, t.IsActive, t.SortOrder, t.CreatedAt, t.UpdatedAt}
}
