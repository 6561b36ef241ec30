// Package repository defines the persistence interfaces consumed by the
// service layer. Implementations live in the postgres subpackage.
package repository

import (
	"context"
	"time"

	"github.com/mayankwalia/MyBasketBackend/internal/domain"
)

// ProductRepository manages catalog products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	ListByManager(ctx context.Context, managerID string) ([]domain.Product, error)
	// Update rewrites the product's editable fields. Stock applies as a
	// relative delta under the same non-negative guard as checkout so a
	// concurrent decrement is never overwritten.
	Update(ctx context.Context, p *domain.Product, stockDelta int) error
	// DeleteCascade removes the product together with its cart lines, order
	// lines, and feedback in one transaction. It returns the category the
	// product belonged to so callers can invalidate its listing.
	DeleteCascade(ctx context.Context, id string) (categoryID string, err error)
}

// CategoryRepository manages product categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
}

// CartRepository manages per-customer cart lines.
type CartRepository interface {
	// Upsert adds a cart line or replaces the quantity of an existing line
	// for the same (customer, product) pair.
	Upsert(ctx context.Context, line *domain.CartLine) error
	ListItems(ctx context.Context, customerID string) ([]domain.CartItem, error)
	Remove(ctx context.Context, customerID, productID string) error
	Clear(ctx context.Context, customerID string) error
}

// OrderRepository manages orders and the checkout transaction.
type OrderRepository interface {
	// PlaceOrder atomically converts the customer's cart into an order:
	// snapshots discounted prices into order lines, decrements stock with an
	// oversell guard, and deletes the cart lines. Any failure rolls back the
	// entire operation.
	PlaceOrder(ctx context.Context, customerID, deliveryAddress string) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

// FeedbackRepository manages product feedback. Mutations recompute the
// product's average rating inside the same transaction.
type FeedbackRepository interface {
	Add(ctx context.Context, f *domain.Feedback) error
	Delete(ctx context.Context, id string) (productID string, err error)
	GetByID(ctx context.Context, id string) (*domain.Feedback, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Feedback, error)
}

// ModerationRepository manages pending moderation requests and applies their
// side effects on approval.
type ModerationRepository interface {
	Create(ctx context.Context, r *domain.ModerationRequest) error
	GetByID(ctx context.Context, id string) (*domain.ModerationRequest, error)
	List(ctx context.Context) ([]domain.ModerationRequest, error)
	// Approve applies the request's side effects and deletes it, all in one
	// transaction. It returns the category affected, when any, so callers
	// can invalidate per-category caches.
	Approve(ctx context.Context, r *domain.ModerationRequest) (categoryID string, err error)
	Decline(ctx context.Context, id string) error
}

// UserRepository manages storefront accounts and the notification read queries.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateDeliveryDetails(ctx context.Context, id, address, phone string) error
	SetActive(ctx context.Context, id string, active bool) error
	RecordLogin(ctx context.Context, id string, at time.Time) error
	UsersInactiveSince(ctx context.Context, since time.Time) ([]domain.User, error)
	UsersWithNoOrderSince(ctx context.Context, since time.Time) ([]domain.User, error)
}

// SummaryRepository serves read-only dashboard aggregations.
type SummaryRepository interface {
	SalesByCategory(ctx context.Context) ([]domain.CategorySales, error)
	TopProducts(ctx context.Context, limit int) ([]domain.ProductSales, error)
	OrderStatusCounts(ctx context.Context) ([]domain.StatusCount, error)
}
