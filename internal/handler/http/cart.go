package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mayankwalia/MyBasketBackend/internal/service"
	"github.com/mayankwalia/MyBasketBackend/pkg/httputil"
	"github.com/mayankwalia/MyBasketBackend/pkg/validator"
)

// CartHandler serves the caller's cart.
type CartHandler struct {
	cart   *service.CartService
	logger *slog.Logger
}

// NewCartHandler creates the cart handler.
func NewCartHandler(cart *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{cart: cart, logger: logger}
}

type addToCartRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// View handles GET /cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.ViewCart(r.Context(), CapabilityFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// AddItem handles POST /cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	err := h.cart.AddToCart(r.Context(), CapabilityFromContext(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveItem handles DELETE /cart/items/{productID}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	err := h.cart.RemoveFromCart(r.Context(), CapabilityFromContext(r.Context()),
		chi.URLParam(r, "productID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context(), CapabilityFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
