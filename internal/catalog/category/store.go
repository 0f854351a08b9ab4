package category

import "context"

type Repository interface {
	Create(context context.Context, category *Category) error
	FindByID(context context.Context, id string) (*Category, error)
	FindBySlug(context context.Context, slug string) (*Category, error)
	List(context context.Context, filter ListFilter) ([]*Category, error)
	Update(context context.Context, category *Category) error
	SetActive(context context.Context, id string, active bool) error
	SlugInUse(context context.Context, slug string, excludeID string) (bool, error)
}
