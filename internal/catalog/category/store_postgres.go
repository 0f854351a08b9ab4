package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/castorie/castorie/internal/platform/database/schema"
	"github.com/castorie/castorie/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s`,
		schema.RefCategory.Table,
		schema.RefCategory.ID, schema.RefCategory.Name, schema.RefCategory.Slug,
		schema.RefCategory.Level, schema.RefCategory.ParentID, schema.RefCategory.IsActive,
		schema.RefCategory.SortOrder,
		schema.RefCategory.CreatedAt, schema.RefCategory.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		category.ID, category.Name, category.Slug, category.Level,
		category.ParentID, category.IsActive, category.SortOrder,
	).Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_category")
	}

	return nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.RefCategory.ID, schema.RefCategory.Name, schema.RefCategory.Slug,
		schema.RefCategory.Level, schema.RefCategory.ParentID, schema.RefCategory.IsActive,
		schema.RefCategory.SortOrder, schema.RefCategory.CreatedAt, schema.RefCategory.UpdatedAt,
		schema.RefCategory.Table, schema.RefCategory.ID,
	)

	return repository.scanOne(context, query, id)
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1 AND %s`,
		schema.RefCategory.ID, schema.RefCategory.Name, schema.RefCategory.Slug,
		schema.RefCategory.Level, schema.RefCategory.ParentID, schema.RefCategory.IsActive,
		schema.RefCategory.SortOrder, schema.RefCategory.CreatedAt, schema.RefCategory.UpdatedAt,
		schema.RefCategory.Table, schema.RefCategory.Slug, schema.RefCategory.IsActive,
	)

	return repository.scanOne(context, query, slug)
}

func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s FROM %s WHERE 1=1`,
		schema.RefCategory.ID, schema.RefCategory.Name, schema.RefCategory.Slug,
		schema.RefCategory.Level, schema.RefCategory.ParentID, schema.RefCategory.IsActive,
		schema.RefCategory.SortOrder, schema.RefCategory.CreatedAt, schema.RefCategory.UpdatedAt,
		schema.RefCategory.Table,
	)

	args := make([]any, 0, 2)
	if filter.Level != nil {
		args = append(args, *filter.Level)
		query += fmt.Sprintf(" AND %s = $%d", schema.RefCategory.Level, len(args))
	}
	if filter.ParentID != nil {
		args = append(args, *filter.ParentID)
		query += fmt.Sprintf(" AND %s = $%d", schema.RefCategory.ParentID, len(args))
	}
	if filter.ActiveOnly {
		query += fmt.Sprintf(" AND %s", schema.RefCategory.IsActive)
	}

	query += fmt.Sprintf(" ORDER BY %s ASC, %s ASC, %s ASC",
		schema.RefCategory.Level, schema.RefCategory.SortOrder, schema.RefCategory.Name)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Level, &c.ParentID,
			&c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	return categories, nil
}

func (repository *PostgresRepository) Update(context context.Context, category *Category) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = now() WHERE %s = $1`,
		schema.RefCategory.Table,
		schema.RefCategory.Name, schema.RefCategory.SortOrder, schema.RefCategory.UpdatedAt,
		schema.RefCategory.ID,
	)

	tag, err := repository.db.Exec(context, query, category.ID, category.Name, category.SortOrder)
	if err != nil {
		return dberr.Wrap(err, "update_category")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

func (repository *PostgresRepository) SetActive(context context.Context, id string, active bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.RefCategory.Table,
		schema.RefCategory.IsActive, schema.RefCategory.UpdatedAt, schema.RefCategory.ID,
	)

	tag, err := repository.db.Exec(context, query, id, active)
	if err != nil {
		return dberr.Wrap(err, "set_category_active")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

func (repository *PostgresRepository) SlugInUse(context context.Context, slug string, excludeID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s AND %s <> $2)`,
		schema.RefCategory.Table,
		schema.RefCategory.Slug, schema.RefCategory.IsActive, schema.RefCategory.ID,
	)

	var exists bool
	if err := repository.db.QueryRow(context, query, slug, excludeID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "category_slug_in_use")
	}

	return exists, nil
}

func (repository *PostgresRepository) scanOne(context context.Context, query string, arg any) (*Category, error) {
	c := &Category{}
	err := repository.db.QueryRow(context, query, arg).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Level, &c.ParentID,
		&c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category")
	}

	return c, nil
}
