package category

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/castorie/castorie/internal/platform/middleware"
	requestutil "github.com/castorie/castorie/internal/platform/request"
	"github.com/castorie/castorie/internal/platform/respond"
	"github.com/castorie/castorie/pkg/pointer"
	"github.com/castorie/castorie/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the collection-level category routes.
// Browse endpoints are public; mutations require an operator token.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Get("/tree", handler.tree)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireOperator)
		protected.Post("/", handler.create)
	})
}

// RegisterItemRoutes mounts single-category routes on a subtree that
// carries a {categoryID} URL parameter from the parent router.
func (handler *Handler) RegisterItemRoutes(router chi.Router) {
	router.Get("/", handler.get)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireOperator)
		protected.Patch("/", handler.update)
		protected.Post("/deactivate", handler.deactivate)
		protected.Post("/reactivate", handler.reactivate)
	})
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter := ListFilter{
		ActiveOnly: query.Bool(request.URL.Query().Get("active_only")),
	}
	if raw := request.URL.Query().Get("level"); raw != "" {
		if level, err := strconv.Atoi(raw); err == nil {
			filter.Level = pointer.To(level)
		}
	}
	if raw := request.URL.Query().Get("parent_id"); raw != "" {
		filter.ParentID = pointer.To(raw)
	}

	categories, err := handler.service.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) tree(writer http.ResponseWriter, request *http.Request) {
	activeOnly := query.Bool(request.URL.Query().Get("active_only"))

	roots, err := handler.service.Tree(request.Context(), activeOnly)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, roots)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.ID(request, "categoryID")

	found, err := handler.service.Get(request.Context(), identifier)
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

	updated, err := handler.service.Update(request.Context(), requestutil.ID(request, "categoryID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deactivate(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Deactivate(request.Context(), requestutil.ID(request, "categoryID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) reactivate(writer http.ResponseWriter, request *http.Request) {
	reactivated, err := handler.service.Reactivate(request.Context(), requestutil.ID(request, "categoryID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reactivated)
}
