package schema

// RefProductAttributeValueTable represents the 'catalog.product_attribute_value'
// table. It is written by the product catalog service; this service only reads it
// for facet aggregation and publish validation.
type RefProductAttributeValueTable struct {
	Table      string
	ProductID  string
	CategoryID string
	FilterID   string
	Value      string
}

// RefProductAttributeValue is the schema definition for catalog.product_attribute_value
var RefProductAttributeValue = RefProductAttributeValueTable{
	Table:      "catalog.product_attribute_value",
	ProductID:  "product_id",
	CategoryID: "category_id",
	FilterID:   "filter_id",
	Value:      "value",
}

func (t RefProductAttributeValueTable) Columns() []string {
	return []string{t.ProductID, t.CategoryID, t.FilterID, t.Value}
}
