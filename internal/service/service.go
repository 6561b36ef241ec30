// Package service implements the storefront business logic: role checks,
// cache read-through with precise invalidation, and event publication around
// the repository layer.
package service

import (
	"context"

	"github.com/mayankwalia/MyBasketBackend/internal/domain"
)

// EventPublisher is the outbound event contract consumed by services.
// Implemented by event.Producer; publishing is fire-and-forget from the
// caller's perspective, failures are logged and never fail the request.
type EventPublisher interface {
	OrderPlaced(ctx context.Context, order *domain.Order) error
	OrderStatusChanged(ctx context.Context, order *domain.Order) error
	ProductDeleted(ctx context.Context, productID, categoryID string) error
}
