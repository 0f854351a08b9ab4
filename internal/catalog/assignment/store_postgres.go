package assignment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/castorie/castorie/internal/catalog/filter"
	"github.com/castorie/castorie/internal/platform/database/schema"
	"github.com/castorie/castorie/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) FindByPair(context context.Context, categoryID, filterID string) (*Assignment, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s WHERE %s = $1 AND %s = $2`,
		schema.RefFilterAssignment.ID, schema.RefFilterAssignment.CategoryID,
		schema.RefFilterAssignment.FilterID, schema.RefFilterAssignment.CategoryLevel,
		schema.RefFilterAssignment.IsRequired, schema.RefFilterAssignment.IsActive,
		schema.RefFilterAssignment.SortOrder, schema.RefFilterAssignment.AssignedAt,
		schema.RefFilterAssignment.AssignedBy,
		schema.RefFilterAssignment.Table,
		schema.RefFilterAssignment.CategoryID, schema.RefFilterAssignment.FilterID,
	)

	a := &Assignment{}
	err := repository.db.QueryRow(context, query, categoryID, filterID).Scan(
		&a.ID, &a.CategoryID, &a.FilterID, &a.CategoryLevel,
		&a.IsRequired, &a.IsActive, &a.SortOrder, &a.AssignedAt, &a.AssignedBy,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_assignment_by_pair")
	}

	return a, nil
}

func (repository *PostgresRepository) Insert(context context.Context, assignment *Assignment) (bool, error) {
	// The ON CONFLICT target is the partial unique index on the active pair.
	// Losing the race is not an error; the caller re-reads the winner.
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7)
		ON CONFLICT (%s, %s) WHERE %s DO NOTHING
		RETURNING %s`,
		schema.RefFilterAssignment.Table,
		schema.RefFilterAssignment.ID, schema.RefFilterAssignment.CategoryID,
		schema.RefFilterAssignment.FilterID, schema.RefFilterAssignment.CategoryLevel,
		schema.RefFilterAssignment.IsRequired, schema.RefFilterAssignment.IsActive,
		schema.RefFilterAssignment.SortOrder, schema.RefFilterAssignment.AssignedBy,
		schema.RefFilterAssignment.CategoryID, schema.RefFilterAssignment.FilterID,
		schema.RefFilterAssignment.IsActive,
		schema.RefFilterAssignment.AssignedAt,
	)

	err := repository.db.QueryRow(context, query,
		assignment.ID, assignment.CategoryID, assignment.FilterID,
		assignment.CategoryLevel, assignment.IsRequired, assignment.SortOrder,
		assignment.AssignedBy,
	).Scan(&assignment.AssignedAt)
	if err != nil {
		// DO NOTHING yields zero rows when a concurrent writer won.
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, dberr.Wrap(err, "insert_assignment")
	}

	assignment.IsActive = true
	return true, nil
}

func (repository *PostgresRepository) Reactivate(context context.Context, id string, isRequired bool, sortOrder int, assignedBy string) (*Assignment, error) {
	query := fmt.Sprintf(`UPDATE %s
		SET %s = TRUE, %s = $2, %s = $3, %s = now(), %s = $4
		WHERE %s = $1
		RETURNING %s, %s, %s, %s, %s, %s, %s, %s, %s`,
		schema.RefFilterAssignment.Table,
		schema.RefFilterAssignment.IsActive, schema.RefFilterAssignment.IsRequired,
		schema.RefFilterAssignment.SortOrder, schema.RefFilterAssignment.AssignedAt,
		schema.RefFilterAssignment.AssignedBy,
		schema.RefFilterAssignment.ID,
		schema.RefFilterAssignment.ID, schema.RefFilterAssignment.CategoryID,
		schema.RefFilterAssignment.FilterID, schema.RefFilterAssignment.CategoryLevel,
		schema.RefFilterAssignment.IsRequired, schema.RefFilterAssignment.IsActive,
		schema.RefFilterAssignment.SortOrder, schema.RefFilterAssignment.AssignedAt,
		schema.RefFilterAssignment.AssignedBy,
	)

	a := &Assignment{}
	err := repository.db.QueryRow(context, query, id, isRequired, sortOrder, assignedBy).Scan(
		&a.ID, &a.CategoryID, &a.FilterID, &a.CategoryLevel,
		&a.IsRequired, &a.IsActive, &a.SortOrder, &a.AssignedAt, &a.AssignedBy,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "reactivate_assignment")
	}

	return a, nil
}

func (repository *PostgresRepository) DeactivateByPair(context context.Context, categoryID, filterID string) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = FALSE WHERE %s = $1 AND %s = $2 AND %s`,
		schema.RefFilterAssignment.Table,
		schema.RefFilterAssignment.IsActive,
		schema.RefFilterAssignment.CategoryID, schema.RefFilterAssignment.FilterID,
		schema.RefFilterAssignment.IsActive,
	)

	tag, err := repository.db.Exec(context, query, categoryID, filterID)
	if err != nil {
		return false, dberr.Wrap(err, "deactivate_assignment")
	}

	return tag.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) DeactivateByID(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = FALSE WHERE %s = $1`,
		schema.RefFilterAssignment.Table,
		schema.RefFilterAssignment.IsActive, schema.RefFilterAssignment.ID,
	)

	if _, err := repository.db.Exec(context, query, id); err != nil {
		return dberr.Wrap(err, "deactivate_assignment_by_id")
	}

	return nil
}

func (repository *PostgresRepository) ListForCategory(context context.Context, categoryID string, activeOnly bool) ([]*Assignment, error) {
	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s,
		       f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s
		FROM %s a
		JOIN %s f ON a.%s = f.%s
		WHERE a.%s = $1`,
		schema.RefFilterAssignment.ID, schema.RefFilterAssignment.CategoryID,
		schema.RefFilterAssignment.FilterID, schema.RefFilterAssignment.CategoryLevel,
		schema.RefFilterAssignment.IsRequired, schema.RefFilterAssignment.IsActive,
		schema.RefFilterAssignment.SortOrder, schema.RefFilterAssignment.AssignedAt,
		schema.RefFilterAssignment.AssignedBy,
		schema.RefFilter.ID, schema.RefFilter.Name, schema.RefFilter.DisplayName,
		schema.RefFilter.ValueType, schema.RefFilter.Options, schema.RefFilter.IsActive,
		schema.RefFilter.SortOrder,
		schema.RefFilterAssignment.Table, schema.RefFilter.Table,
		schema.RefFilterAssignment.FilterID, schema.RefFilter.ID,
		schema.RefFilterAssignment.CategoryID,
	)

	if activeOnly {
		query += fmt.Sprintf(" AND a.%s", schema.RefFilterAssignment.IsActive)
	}
	query += fmt.Sprintf(" ORDER BY a.%s ASC, f.%s ASC",
		schema.RefFilterAssignment.SortOrder, schema.RefFilter.DisplayName)

	rows, err := repository.db.Query(context, query, categoryID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_assignments")
	}
	defer rows.Close()

	assignments := make([]*Assignment, 0)
	for rows.Next() {
		a := &Assignment{}
		f := &filter.Filter{}
		var valueType string
		var options []byte

		if err := rows.Scan(
			&a.ID, &a.CategoryID, &a.FilterID, &a.CategoryLevel,
			&a.IsRequired, &a.IsActive, &a.SortOrder, &a.AssignedAt, &a.AssignedBy,
			&f.ID, &f.Name, &f.DisplayName, &valueType, &options, &f.IsActive, &f.SortOrder,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_assignment")
		}

		f.ValueType = filter.ValueType(valueType)
		if len(options) > 0 {
			if err := json.Unmarshal(options, &f.Options); err != nil {
				return nil, dberr.Wrap(err, "decode_assignment_filter_options")
			}
		}
		a.Filter = f
		assignments = append(assignments, a)
	}

	return assignments, nil
}

func (repository *PostgresRepository) ActiveFilterIDs(context context.Context, categoryID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s`,
		schema.RefFilterAssignment.FilterID, schema.RefFilterAssignment.Table,
		schema.RefFilterAssignment.CategoryID, schema.RefFilterAssignment.IsActive,
	)

	rows, err := repository.db.Query(context, query, categoryID)
	if err != nil {
		return nil, dberr.Wrap(err, "active_filter_ids")
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, "scan_filter_id")
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (repository *PostgresRepository) FilterHasAssignments(context context.Context, filterID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.RefFilterAssignment.Table, schema.RefFilterAssignment.FilterID,
	)

	var exists bool
	if err := repository.db.QueryRow(context, query, filterID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "filter_has_assignments")
	}

	return exists, nil
}
