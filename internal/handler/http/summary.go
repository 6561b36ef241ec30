package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mayankwalia/MyBasketBackend/internal/service"
	"github.com/mayankwalia/MyBasketBackend/pkg/httputil"
)

// SummaryHandler serves the dashboard aggregations.
type SummaryHandler struct {
	summaries *service.SummaryService
	logger    *slog.Logger
}

// NewSummaryHandler creates the summary handler.
func NewSummaryHandler(summaries *service.SummaryService, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, logger: logger}
}

// SalesByCategory handles GET /summaries/sales-by-category.
func (h *SummaryHandler) SalesByCategory(w http.ResponseWriter, r *http.Request) {
	sales, err := h.summaries.SalesByCategory(r.Context(), CapabilityFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sales})
}

// TopProducts handles GET /summaries/top-products?limit=N.
func (h *SummaryHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	sales, err := h.summaries.TopProducts(r.Context(), CapabilityFromContext(r.Context()), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sales})
}

// OrderStatusCounts handles GET /summaries/order-status.
func (h *SummaryHandler) OrderStatusCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.summaries.OrderStatusCounts(r.Context(), CapabilityFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: counts})
}
