package product

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/castorie/castorie/internal/platform/database/schema"
	"github.com/castorie/castorie/internal/platform/dberr"
)

// PostgresAttributeStore reads product attribute values. This service never
// writes the table; the product catalog owns it.
type PostgresAttributeStore struct {
	db *pgxpool.Pool
}

func NewPostgresAttributeStore(db *pgxpool.Pool) *PostgresAttributeStore {
	return &PostgresAttributeStore{db: db}
}

func (store *PostgresAttributeStore) ListForCategory(context context.Context, categoryID string) ([]*AttributeValue, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.RefProductAttributeValue.ProductID, schema.RefProductAttributeValue.CategoryID,
		schema.RefProductAttributeValue.FilterID, schema.RefProductAttributeValue.Value,
		schema.RefProductAttributeValue.Table, schema.RefProductAttributeValue.CategoryID,
	)

	rows, err := store.db.Query(context, query, categoryID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_attribute_values")
	}
	defer rows.Close()

	values := make([]*AttributeValue, 0)
	for rows.Next() {
		v := &AttributeValue{}
		if err := rows.Scan(&v.ProductID, &v.CategoryID, &v.FilterID, &v.Value); err != nil {
			return nil, dberr.Wrap(err, "scan_attribute_value")
		}
		values = append(values, v)
	}

	return values, nil
}
