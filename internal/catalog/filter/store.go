package filter

import (
	"context"

	"github.com/castorie/castorie/pkg/pagination"
)

type Repository interface {
	Create(context context.Context, filter *Filter) error
	FindByID(context context.Context, id string) (*Filter, error)
	FindByIDs(context context.Context, ids []string) ([]*Filter, error)
	List(context context.Context, activeOnly bool) ([]*Filter, error)
	ListPaged(context context.Context, activeOnly bool, params pagination.Params) ([]*Filter, int, error)
	Update(context context.Context, filter *Filter) error
	SetActive(context context.Context, id string, active bool) error
}
