package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NotFound("product", "prod-1")
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, err.Error(), "prod-1")

	wrapped := Internal(errors.New("boom"))
	assert.Contains(t, wrapped.Error(), "boom")
}

func TestAppError_Unwrap(t *testing.T) {
	err := InsufficientStock("prod-1", 5)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	wrapped := fmt.Errorf("place order: %w", err)
	assert.ErrorIs(t, wrapped, ErrInsufficientStock)

	var appErr *AppError
	assert.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("order", "o-1"), http.StatusNotFound},
		{"permission denied", PermissionDenied("nope"), http.StatusForbidden},
		{"empty cart", EmptyCart("user-1"), http.StatusBadRequest},
		{"insufficient stock", InsufficientStock("prod-1", 3), http.StatusConflict},
		{"invalid status", InvalidStatus("Shipped"), http.StatusBadRequest},
		{"invalid request type", InvalidRequestType("Whatever"), http.StatusBadRequest},
		{"validation", Validation("rating out of range"), http.StatusBadRequest},
		{"bare sentinel", fmt.Errorf("load: %w", ErrNotFound), http.StatusNotFound},
		{"unknown", errors.New("weird"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
