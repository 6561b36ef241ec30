package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mayankwalia/MyBasketBackend/internal/service"
	"github.com/mayankwalia/MyBasketBackend/pkg/httputil"
	"github.com/mayankwalia/MyBasketBackend/pkg/validator"
)

// CategoryHandler serves category reads.
type CategoryHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewCategoryHandler creates the category handler.
func NewCategoryHandler(catalog *service.CatalogService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{catalog: catalog, logger: logger}
}

// List handles GET /categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CategoryInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	c, err := h.catalog.CreateCategory(r.Context(), CapabilityFromContext(r.Context()), &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: c})
}

// Rename handles PUT /categories/{categoryID}.
func (h *CategoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var input service.CategoryInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	c, err := h.catalog.RenameCategory(r.Context(), CapabilityFromContext(r.Context()),
		chi.URLParam(r, "categoryID"), &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: c})
}

// Products handles GET /categories/{categoryID}/products.
func (h *CategoryHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListCategoryProducts(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}
