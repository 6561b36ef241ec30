package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mayankwalia/MyBasketBackend/internal/service"
	"github.com/mayankwalia/MyBasketBackend/pkg/httputil"
	"github.com/mayankwalia/MyBasketBackend/pkg/validator"
)

// FeedbackHandler serves product feedback.
type FeedbackHandler struct {
	feedback *service.FeedbackService
	logger   *slog.Logger
}

// NewFeedbackHandler creates the feedback handler.
func NewFeedbackHandler(feedback *service.FeedbackService, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, logger: logger}
}

// Add handles POST /feedback.
func (h *FeedbackHandler) Add(w http.ResponseWriter, r *http.Request) {
	var input service.AddFeedbackInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	f, err := h.feedback.AddFeedback(r.Context(), CapabilityFromContext(r.Context()), &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: f})
}

// Delete handles DELETE /feedback/{feedbackID}.
func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.feedback.DeleteFeedback(r.Context(), CapabilityFromContext(r.Context()),
		chi.URLParam(r, "feedbackID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListForProduct handles GET /products/{productID}/feedback.
func (h *FeedbackHandler) ListForProduct(w http.ResponseWriter, r *http.Request) {
	feedback, err := h.feedback.ListFeedback(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: feedback})
}
