package filter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/castorie/castorie/internal/platform/database/schema"
	"github.com/castorie/castorie/internal/platform/dberr"
	"github.com/castorie/castorie/pkg/pagination"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Create(context context.Context, filter *Filter) error {
	options, err := marshalOptions(filter.Options)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s`,
		schema.RefFilter.Table,
		schema.RefFilter.ID, schema.RefFilter.Name, schema.RefFilter.DisplayName,
		schema.RefFilter.ValueType, schema.RefFilter.Options, schema.RefFilter.IsActive,
		schema.RefFilter.SortOrder,
		schema.RefFilter.CreatedAt, schema.RefFilter.UpdatedAt,
	)

	err = repository.db.QueryRow(context, query,
		filter.ID, filter.Name, filter.DisplayName, string(filter.ValueType),
		options, filter.IsActive, filter.SortOrder,
	).Scan(&filter.CreatedAt, &filter.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_filter")
	}

	return nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Filter, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns(), schema.RefFilter.Table, schema.RefFilter.ID)

	rows, err := repository.db.Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "get_filter")
	}
	defer rows.Close()

	filters, err := scanFilters(rows)
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return nil, dberr.ErrNotFound
	}

	return filters[0], nil
}

func (repository *PostgresRepository) FindByIDs(context context.Context, ids []string) ([]*Filter, error) {
	if len(ids) == 0 {
		return []*Filter{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1)`,
		selectColumns(), schema.RefFilter.Table, schema.RefFilter.ID)

	rows, err := repository.db.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "get_filters_by_ids")
	}
	defer rows.Close()

	return scanFilters(rows)
}

func (repository *PostgresRepository) List(context context.Context, activeOnly bool) ([]*Filter, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, selectColumns(), schema.RefFilter.Table)
	if activeOnly {
		query += fmt.Sprintf(` WHERE %s`, schema.RefFilter.IsActive)
	}
	query += fmt.Sprintf(` ORDER BY %s ASC, %s ASC`,
		schema.RefFilter.SortOrder, schema.RefFilter.DisplayName)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_filters")
	}
	defer rows.Close()

	return scanFilters(rows)
}

func (repository *PostgresRepository) ListPaged(context context.Context, activeOnly bool, params pagination.Params) ([]*Filter, int, error) {
	where := ""
	if activeOnly {
		where = fmt.Sprintf(` WHERE %s`, schema.RefFilter.IsActive)
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s%s`, schema.RefFilter.Table, where)
	var total int
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_filters")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s ASC, %s ASC LIMIT $1 OFFSET $2`,
		selectColumns(), schema.RefFilter.Table, where,
		schema.RefFilter.SortOrder, schema.RefFilter.DisplayName)

	rows, err := repository.db.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_filters_paged")
	}
	defer rows.Close()

	filters, err := scanFilters(rows)
	if err != nil {
		return nil, 0, err
	}

	return filters, total, nil
}

func (repository *PostgresRepository) Update(context context.Context, filter *Filter) error {
	options, err := marshalOptions(filter.Options)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = now() WHERE %s = $1`,
		schema.RefFilter.Table,
		schema.RefFilter.DisplayName, schema.RefFilter.SortOrder, schema.RefFilter.Options,
		schema.RefFilter.UpdatedAt, schema.RefFilter.ID,
	)

	tag, err := repository.db.Exec(context, query, filter.ID, filter.DisplayName, filter.SortOrder, options)
	if err != nil {
		return dberr.Wrap(err, "update_filter")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

func (repository *PostgresRepository) SetActive(context context.Context, id string, active bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.RefFilter.Table,
		schema.RefFilter.IsActive, schema.RefFilter.UpdatedAt, schema.RefFilter.ID,
	)

	tag, err := repository.db.Exec(context, query, id, active)
	if err != nil {
		return dberr.Wrap(err, "set_filter_active")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

func selectColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.RefFilter.ID, schema.RefFilter.Name, schema.RefFilter.DisplayName,
		schema.RefFilter.ValueType, schema.RefFilter.Options, schema.RefFilter.IsActive,
		schema.RefFilter.SortOrder, schema.RefFilter.CreatedAt, schema.RefFilter.UpdatedAt)
}

func scanFilters(rows pgx.Rows) ([]*Filter, error) {
	filters := make([]*Filter, 0)
	for rows.Next() {
		f := &Filter{}
		var valueType string
		var options []byte
		if err := rows.Scan(&f.ID, &f.Name, &f.DisplayName, &valueType, &options,
			&f.IsActive, &f.SortOrder, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_filter")
		}
		f.ValueType = ValueType(valueType)
		if len(options) > 0 {
			if err := json.Unmarshal(options, &f.Options); err != nil {
				return nil, dberr.Wrap(err, "decode_filter_options")
			}
		}
		filters = append(filters, f)
	}

	return filters, nil
}

// marshalOptions serializes the option set for the jsonb column.
// A nil slice becomes SQL NULL, matching non-select filters.
func marshalOptions(options []Option) ([]byte, error) {
	if options == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(options)
	if err != nil {
		return nil, dberr.Wrap(err, "encode_filter_options")
	}
	return encoded, nil
}
