package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for the storefront domain.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidRequestType = errors.New("invalid request type")
	ErrValidation         = errors.New("validation failed")
	ErrInternal           = errors.New("internal error")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error for a missing entity.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// PermissionDenied creates a 403 error for a role or ownership mismatch.
func PermissionDenied(message string) *AppError {
	return &AppError{
		Code:    "PERMISSION_DENIED",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrPermissionDenied,
	}
}

// EmptyCart creates a 400 error for checkout against an empty cart.
func EmptyCart(customerID string) *AppError {
	return &AppError{
		Code:    "EMPTY_CART",
		Message: fmt.Sprintf("customer %s has no items in cart", customerID),
		Status:  http.StatusBadRequest,
		Err:     ErrEmptyCart,
	}
}

// InsufficientStock creates a 409 error for an oversell attempt.
func InsufficientStock(productID string, requested int) *AppError {
	return &AppError{
		Code:    "INSUFFICIENT_STOCK",
		Message: fmt.Sprintf("product %s does not have %d units in stock", productID, requested),
		Status:  http.StatusConflict,
		Err:     ErrInsufficientStock,
	}
}

// InvalidStatus creates a 400 error for an unknown order status.
func InvalidStatus(status string) *AppError {
	return &AppError{
		Code:    "INVALID_STATUS",
		Message: fmt.Sprintf("%q is not a valid order status", status),
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidStatus,
	}
}

// InvalidRequestType creates a 400 error for an unknown moderation request type.
func InvalidRequestType(reqType string) *AppError {
	return &AppError{
		Code:    "INVALID_REQUEST_TYPE",
		Message: fmt.Sprintf("%q is not a valid moderation request type", reqType),
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidRequestType,
	}
}

// Validation creates a 400 error for malformed input.
func Validation(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrValidation,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidRequestType), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
