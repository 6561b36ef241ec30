package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mayankwalia/MyBasketBackend/internal/service"
	"github.com/mayankwalia/MyBasketBackend/pkg/httputil"
	"github.com/mayankwalia/MyBasketBackend/pkg/validator"
)

// OrderHandler serves checkout and order tracking.
type OrderHandler struct {
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewOrderHandler creates the order handler.
func NewOrderHandler(checkout *service.CheckoutService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{checkout: checkout, logger: logger}
}

type placeOrderRequest struct {
	DeliveryAddress string `json:"delivery_address" validate:"required,max=500"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Place handles POST /orders, converting the caller's cart into an order.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), CapabilityFromContext(r.Context()), req.DeliveryAddress)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// Track handles GET /orders, listing the caller's order history.
func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	orders, err := h.checkout.TrackOrders(r.Context(), CapabilityFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}

// Get handles GET /orders/{orderID}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkout.GetOrder(r.Context(), CapabilityFromContext(r.Context()),
		chi.URLParam(r, "orderID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// UpdateStatus handles PATCH /orders/{orderID}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	err := h.checkout.UpdateOrderStatus(r.Context(), CapabilityFromContext(r.Context()),
		chi.URLParam(r, "orderID"), req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
