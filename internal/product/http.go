package product

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

// RegisterRoutes mounts the product boundary routes.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/validate", handler.validate)
}

func (handler *Handler) validate(writer http.ResponseWriter, request *http.Request) {
	var input PublishInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	resolution, err := handler.service.ValidatePublish(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]interface{}{
		"valid":       true,
		"category_id": resolution.CategoryID,
	})
}
