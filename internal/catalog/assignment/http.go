package assignment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/castorie/castorie/internal/platform/middleware"
	requestutil "github.com/castorie/castorie/internal/platform/request"
	"github.com/castorie/castorie/internal/platform/respond"
	"github.com/castorie/castorie/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the assignment routes under a category subtree.
// The routes expect a {categoryID} URL parameter from the parent router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/assignments", handler.list)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireOperator)
		protected.Post("/assignments", handler.assign)
		protected.Post("/assignments/bulk", handler.bulkAssign)
		protected.Delete("/assignments/{filterID}", handler.unassign)
	})
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	categoryID := requestutil.ID(request, "categoryID")
	activeOnly := true
	if request.URL.Query().Has("active_only") {
		activeOnly = query.Bool(request.URL.Query().Get("active_only"))
	}

	assignments, err := handler.service.List(request.Context(), categoryID, activeOnly)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, assignments)
}

func (handler *Handler) assign(writer http.ResponseWriter, request *http.Request) {
	var input AssignInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	operatorID, err := requestutil.RequiredOperatorID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	assigned, err := handler.service.Assign(request.Context(), requestutil.ID(request, "categoryID"), input, operatorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, assigned)
}

func (handler *Handler) bulkAssign(writer http.ResponseWriter, request *http.Request) {
	var payload struct {
		Entries []AssignInput `json:"entries"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	operatorID, err := requestutil.RequiredOperatorID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	assigned, err := handler.service.BulkAssign(request.Context(), requestutil.ID(request, "categoryID"), payload.Entries, operatorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, assigned)
}

func (handler *Handler) unassign(writer http.ResponseWriter, request *http.Request) {
	categoryID := requestutil.ID(request, "categoryID")
	filterID := requestutil.ID(request, "filterID")

	if err := handler.service.Unassign(request.Context(), categoryID, filterID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
