package resolver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/castorie/castorie/internal/platform/request"
	"github.com/castorie/castorie/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public resolution endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/effective-filters", handler.effectiveFilters)
}

// RegisterCategoryRoutes mounts resolution endpoints that live under a
// category subtree, expecting {categoryID} from the parent router.
func (handler *Handler) RegisterCategoryRoutes(router chi.Router) {
	router.Get("/available-filters", handler.availableFilters)
}

func (handler *Handler) effectiveFilters(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()
	path := Path{
		L1: values.Get("l1"),
		L2: values.Get("l2"),
		L3: values.Get("l3"),
	}

	resolution, err := handler.service.EffectiveFilters(request.Context(), path)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, resolution)
}

func (handler *Handler) availableFilters(writer http.ResponseWriter, request *http.Request) {
	available, err := handler.service.AvailableFilters(request.Context(), requestutil.ID(request, "categoryID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, available)
}
