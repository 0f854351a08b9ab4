package filter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/castorie/castorie/internal/platform/middleware"
	requestutil "github.com/castorie/castorie/internal/platform/request"
	"github.com/castorie/castorie/internal/platform/respond"
	"github.com/castorie/castorie/pkg/pagination"
	"github.com/castorie/castorie/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the filter catalog routes on the provided router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Get("/{filterID}", handler.get)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireOperator)
		protected.Post("/", handler.create)
		protected.Patch("/{filterID}", handler.update)
		protected.Post("/{filterID}/deactivate", handler.deactivate)
		protected.Post("/{filterID}/reactivate", handler.reactivate)
	})
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	activeOnly := query.Bool(request.URL.Query().Get("active_only"))
	params := pagination.FromRequest(request)

	filters, meta, err := handler.service.ListPaged(request.Context(), activeOnly, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, filters, meta)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	found, err := handler.service.Get(request.Context(), requestutil.ID(request, "filterID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), requestutil.ID(request, "filterID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deactivate(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Deactivate(request.Context(), requestutil.ID(request, "filterID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) reactivate(writer http.ResponseWriter, request *http.Request) {
	reactivated, err := handler.service.Reactivate(request.Context(), requestutil.ID(request, "filterID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reactivated)
}
