package facet

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/castorie/castorie/internal/catalog/resolver"
	"github.com/castorie/castorie/internal/platform/respond"
	"github.com/castorie/castorie/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public facet endpoint.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/facets", handler.facets)
}

func (handler *Handler) facets(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()
	path := resolver.Path{
		L1: values.Get("l1"),
		L2: values.Get("l2"),
		L3: values.Get("l3"),
	}
	boundaries := query.Float64Slice(values.Get("buckets"))
	names := query.StringSlice(values.Get("filters"))

	facets, err := handler.service.Aggregate(request.Context(), path, boundaries, names)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, facets)
}
