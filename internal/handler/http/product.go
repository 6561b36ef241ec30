// Package http exposes the storefront over a chi-routed JSON API. Handlers
// decode and validate input, pull the caller's capability off the context,
// and delegate everything else to the service layer.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mayankwalia/MyBasketBackend/internal/service"
	"github.com/mayankwalia/MyBasketBackend/pkg/httputil"
	"github.com/mayankwalia/MyBasketBackend/pkg/validator"
)

// ProductHandler serves catalog reads and product mutations.
type ProductHandler struct {
	catalog  *service.CatalogService
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewProductHandler creates the product handler.
func NewProductHandler(catalog *service.CatalogService, checkout *service.CheckoutService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, checkout: checkout, logger: logger}
}

// List handles GET /products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// Get handles GET /products/{productID}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: p})
}

// Create handles POST /products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateProductInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	p, err := h.catalog.CreateProduct(r.Context(), CapabilityFromContext(r.Context()), &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: p})
}

// Update handles PUT /products/{productID}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateProductInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	p, err := h.catalog.UpdateProduct(r.Context(), CapabilityFromContext(r.Context()),
		chi.URLParam(r, "productID"), &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: p})
}

// Delete handles DELETE /products/{productID}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.checkout.DeleteProduct(r.Context(), CapabilityFromContext(r.Context()),
		chi.URLParam(r, "productID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMine handles GET /manager/products.
func (h *ProductHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListManagerProducts(r.Context(), CapabilityFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}
