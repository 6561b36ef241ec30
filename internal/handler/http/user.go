package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mayankwalia/MyBasketBackend/internal/service"
	"github.com/mayankwalia/MyBasketBackend/pkg/httputil"
	"github.com/mayankwalia/MyBasketBackend/pkg/validator"
)

// UserHandler serves account management.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates the user handler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type updateDeliveryRequest struct {
	Address string `json:"address" validate:"required,max=500"`
	Phone   string `json:"phone" validate:"max=20"`
}

// Register handles POST /users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterUserInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	u, err := h.users.Register(r.Context(), &input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: u})
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context(), CapabilityFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: users})
}

// Get handles GET /users/{userID}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetUser(r.Context(), CapabilityFromContext(r.Context()),
		chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: u})
}

// UpdateDelivery handles PUT /users/me/delivery.
func (h *UserHandler) UpdateDelivery(w http.ResponseWriter, r *http.Request) {
	var req updateDeliveryRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	err := h.users.UpdateDeliveryDetails(r.Context(), CapabilityFromContext(r.Context()),
		req.Address, req.Phone)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Deactivate handles POST /users/{userID}/deactivate.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	err := h.users.Deactivate(r.Context(), CapabilityFromContext(r.Context()),
		chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reactivate handles POST /users/{userID}/reactivate.
func (h *UserHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	err := h.users.Reactivate(r.Context(), CapabilityFromContext(r.Context()),
		chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordLogin handles POST /users/me/login. The gateway calls this after a
// successful authentication to stamp last_login_at for the reminder job.
func (h *UserHandler) RecordLogin(w http.ResponseWriter, r *http.Request) {
	cap := CapabilityFromContext(r.Context())
	if err := h.users.RecordLogin(r.Context(), cap.UserID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
