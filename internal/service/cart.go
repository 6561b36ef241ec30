package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mayankwalia/MyBasketBackend/internal/domain"
	"github.com/mayankwalia/MyBasketBackend/internal/repository"
	apperrors "github.com/mayankwalia/MyBasketBackend/pkg/errors"
)

// Cart holds a customer's cart lines with the running total.
type Cart struct {
	Items []domain.CartItem `json:"items"`
	Total float64           `json:"total"`
}

// CartService manages per-customer cart lines. Carts are small and personal
// so they read straight from the store, bypassing the shared cache.
type CartService struct {
	cart     repository.CartRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewCartService creates the cart service.
func NewCartService(cart repository.CartRepository, products repository.ProductRepository, logger *slog.Logger) *CartService {
	return &CartService{cart: cart, products: products, logger: logger}
}

// AddToCart puts a product in the caller's cart, replacing any existing
// quantity. Quantity is capped by the product's stock at write time; the
// checkout transaction re-checks under its own guard.
func (s *CartService) AddToCart(ctx context.Context, cap domain.Capability, productID string, quantity int) error {
	if err := cap.RequireRole(domain.RoleCustomer); err != nil {
		return err
	}
	if quantity <= 0 {
		return apperrors.Validation("quantity must be positive")
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p.Stock < quantity {
		return apperrors.InsufficientStock(productID, quantity)
	}

	line := &domain.CartLine{
		ID:         uuid.New().String(),
		CustomerID: cap.UserID,
		ProductID:  productID,
		Quantity:   quantity,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.cart.Upsert(ctx, line); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}

	s.logger.DebugContext(ctx, "cart line upserted",
		slog.String("customer_id", cap.UserID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)
	return nil
}

// ViewCart returns the caller's cart with per-line product details and the
// discounted total.
func (s *CartService) ViewCart(ctx context.Context, cap domain.Capability) (*Cart, error) {
	if err := cap.RequireRole(domain.RoleCustomer); err != nil {
		return nil, err
	}

	items, err := s.cart.ListItems(ctx, cap.UserID)
	if err != nil {
		return nil, err
	}

	c := &Cart{Items: items}
	for _, item := range items {
		c.Total += item.LineTotal()
	}
	return c, nil
}

// RemoveFromCart drops one product from the caller's cart.
func (s *CartService) RemoveFromCart(ctx context.Context, cap domain.Capability, productID string) error {
	if err := cap.RequireRole(domain.RoleCustomer); err != nil {
		return err
	}
	return s.cart.Remove(ctx, cap.UserID, productID)
}

// ClearCart empties the caller's cart.
func (s *CartService) ClearCart(ctx context.Context, cap domain.Capability) error {
	if err := cap.RequireRole(domain.RoleCustomer); err != nil {
		return err
	}
	return s.cart.Clear(ctx, cap.UserID)
}
