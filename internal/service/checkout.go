package service

import (
	"context"
	"log/slog"

	"github.com/mayankwalia/MyBasketBackend/internal/cache"
	"github.com/mayankwalia/MyBasketBackend/internal/domain"
	"github.com/mayankwalia/MyBasketBackend/internal/repository"
	apperrors "github.com/mayankwalia/MyBasketBackend/pkg/errors"
)

// CheckoutService owns the order lifecycle: the checkout transaction, order
// tracking, status transitions, and product removal with its cascades.
type CheckoutService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	cache    *cache.Store
	events   EventPublisher
	logger   *slog.Logger
}

// NewCheckoutService creates the checkout service.
func NewCheckoutService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	cacheStore *cache.Store,
	events EventPublisher,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		products: products,
		cache:    cacheStore,
		events:   events,
		logger:   logger,
	}
}

// PlaceOrder converts the caller's cart into an order. The repository runs
// the whole conversion in one transaction; this layer adds the role check,
// the cache invalidation for every key the mutation touched, and the event.
func (s *CheckoutService) PlaceOrder(ctx context.Context, cap domain.Capability, deliveryAddress string) (*domain.Order, error) {
	if err := cap.RequireRole(domain.RoleCustomer); err != nil {
		return nil, err
	}

	order, err := s.orders.PlaceOrder(ctx, cap.UserID, deliveryAddress)
	if err != nil {
		return nil, err
	}

	// Stock changed for every ordered product: drop the global listing, the
	// customer's tracking entry, and each product's own and per-category keys.
	keys := []string{cache.KeyAllProducts(), cache.KeyOrderTracking(cap.UserID)}
	seenCategories := make(map[string]bool)
	seenManagers := make(map[string]bool)
	for _, line := range order.Lines {
		keys = append(keys, cache.KeyProduct(line.ProductID))
		p, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			s.logger.WarnContext(ctx, "product lookup for invalidation failed",
				slog.String("product_id", line.ProductID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if !seenCategories[p.CategoryID] {
			seenCategories[p.CategoryID] = true
			keys = append(keys, cache.KeyCategoryProducts(p.CategoryID))
		}
		if p.ManagerID != "" && !seenManagers[p.ManagerID] {
			seenManagers[p.ManagerID] = true
			keys = append(keys, cache.KeyManagerProducts(p.ManagerID))
		}
	}
	s.cache.Delete(ctx, keys...)
	// Every dashboard summary aggregates orders, so a new order stales all of
	// them regardless of parameterization.
	s.cache.DeleteByPrefix(ctx, cache.SummaryPrefix)

	if err := s.events.OrderPlaced(ctx, order); err != nil {
		s.logger.WarnContext(ctx, "order.placed event not published",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("customer_id", order.CustomerID),
		slog.Float64("total_amount", order.TotalAmount),
		slog.Int("lines", len(order.Lines)),
	)
	return order, nil
}

// TrackOrders returns the caller's order history through the cache.
func (s *CheckoutService) TrackOrders(ctx context.Context, cap domain.Capability) ([]domain.Order, error) {
	if err := cap.RequireRole(domain.RoleCustomer); err != nil {
		return nil, err
	}

	key := cache.KeyOrderTracking(cap.UserID)
	var orders []domain.Order
	if s.cache.GetJSON(ctx, key, &orders) {
		return orders, nil
	}

	orders, err := s.orders.ListByCustomer(ctx, cap.UserID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, orders, cache.TTLOrderTracking)
	return orders, nil
}

// GetOrder returns one order. Customers see only their own orders; staff see
// any. Unrecognized roles never reach the repository.
func (s *CheckoutService) GetOrder(ctx context.Context, cap domain.Capability, orderID string) (*domain.Order, error) {
	if err := cap.RequireRole(domain.RoleCustomer, domain.RoleStoreManager, domain.RoleAdmin); err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if cap.Role == domain.RoleCustomer && !cap.IsOwner(order.CustomerID) {
		return nil, apperrors.PermissionDenied("order belongs to another customer")
	}
	return order, nil
}

// UpdateOrderStatus moves an order through its state machine. Customers may
// only cancel their own orders; managers and admins may set any status.
func (s *CheckoutService) UpdateOrderStatus(ctx context.Context, cap domain.Capability, orderID, status string) error {
	if !domain.IsValidOrderStatus(status) {
		return apperrors.InvalidStatus(status)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	switch cap.Role {
	case domain.RoleStoreManager, domain.RoleAdmin:
	default:
		if !cap.IsOwner(order.CustomerID) {
			return apperrors.PermissionDenied("order belongs to another customer")
		}
		if status != domain.OrderStatusCancelled {
			return apperrors.PermissionDenied("customers may only cancel their own orders")
		}
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}

	s.cache.Delete(ctx,
		cache.KeyOrderTracking(order.CustomerID),
		cache.KeySummary("order_status_counts"),
	)

	order.Status = status
	if err := s.events.OrderStatusChanged(ctx, order); err != nil {
		s.logger.WarnContext(ctx, "order.status_changed event not published",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", orderID),
		slog.String("status", status),
	)
	return nil
}

// DeleteProduct removes a product and everything referencing it. Only the
// owning manager or an admin may delete.
func (s *CheckoutService) DeleteProduct(ctx context.Context, cap domain.Capability, productID string) error {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if cap.Role != domain.RoleAdmin {
		if err := cap.RequireRole(domain.RoleStoreManager); err != nil {
			return err
		}
		if !cap.IsOwner(p.ManagerID) {
			return apperrors.PermissionDenied("product belongs to another manager")
		}
	}

	categoryID, err := s.products.DeleteCascade(ctx, productID)
	if err != nil {
		return err
	}

	keys := []string{
		cache.KeyProduct(productID),
		cache.KeyProductReviews(productID),
		cache.KeyAllProducts(),
		cache.KeyCategoryProducts(categoryID),
	}
	if p.ManagerID != "" {
		keys = append(keys, cache.KeyManagerProducts(p.ManagerID))
	}
	s.cache.Delete(ctx, keys...)

	if err := s.events.ProductDeleted(ctx, productID, categoryID); err != nil {
		s.logger.WarnContext(ctx, "product.deleted event not published",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", productID),
		slog.String("category_id", categoryID),
	)
	return nil
}
