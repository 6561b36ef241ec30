package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mayankwalia/MyBasketBackend/internal/service"
	"github.com/mayankwalia/MyBasketBackend/pkg/httputil"
	"github.com/mayankwalia/MyBasketBackend/pkg/validator"
)

// ModerationHandler serves the admin approval queue.
type ModerationHandler struct {
	moderation *service.ModerationService
	logger     *slog.Logger
}

// NewModerationHandler creates the moderation handler.
func NewModerationHandler(moderation *service.ModerationService, logger *slog.Logger) *ModerationHandler {
	return &ModerationHandler{moderation: moderation, logger: logger}
}

// Submit handles POST /requests.
func (h *ModerationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input service.SubmitRequestInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	req, err := h.moderation.SubmitRequest(r.Context(), CapabilityFromContext(r.Context()), &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: req})
}

// List handles GET /requests.
func (h *ModerationHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.moderation.ListRequests(r.Context(), CapabilityFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: requests})
}

// Approve handles POST /requests/{requestID}/approve.
func (h *ModerationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	err := h.moderation.Approve(r.Context(), CapabilityFromContext(r.Context()),
		chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Decline handles POST /requests/{requestID}/decline.
func (h *ModerationHandler) Decline(w http.ResponseWriter, r *http.Request) {
	err := h.moderation.Decline(r.Context(), CapabilityFromContext(r.Context()),
		chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
