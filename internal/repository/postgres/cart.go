package postgres

import (
	"context"
	"fmt"

	"github.com/mayankwalia/MyBasketBackend/internal/domain"
	"github.com/mayankwalia/MyBasketBackend/pkg/database"
	apperrors "github.com/mayankwalia/MyBasketBackend/pkg/errors"
)

// CartRepository implements repository.CartRepository using PostgreSQL.
type CartRepository struct {
	pool database.DBTX
}

// NewCartRepository creates a PostgreSQL-backed cart repository.
func NewCartRepository(pool database.DBTX) *CartRepository {
	return &CartRepository{pool: pool}
}

// Upsert adds a cart line, replacing the quantity when the customer already
// has the product in the cart.
func (r *CartRepository) Upsert(ctx context.Context, line *domain.CartLine) error {
	query := `
		INSERT INTO cart_lines (id, customer_id, product_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (customer_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity`

	_, err := r.pool.Exec(ctx, query,
		line.ID, line.CustomerID, line.ProductID, line.Quantity, line.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("product", line.ProductID)
		}
		return fmt.Errorf("upsert cart line: %w", err)
	}
	return nil
}

// ListItems returns the customer's cart lines joined with product details.
func (r *CartRepository) ListItems(ctx context.Context, customerID string) ([]domain.CartItem, error) {
	query := `
		SELECT cl.id, cl.customer_id, cl.product_id, cl.quantity, cl.created_at,
			p.name, p.price, p.discount, p.stock
		FROM cart_lines cl
		JOIN products p ON p.id = cl.product_id
		WHERE cl.customer_id = $1
		ORDER BY cl.created_at`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		err := rows.Scan(
			&item.ID, &item.CustomerID, &item.ProductID, &item.Quantity, &item.CreatedAt,
			&item.ProductName, &item.UnitPrice, &item.Discount, &item.Stock,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	return items, nil
}

// Remove deletes one product line from the customer's cart.
func (r *CartRepository) Remove(ctx context.Context, customerID, productID string) error {
	query := `DELETE FROM cart_lines WHERE customer_id = $1 AND product_id = $2`

	tag, err := r.pool.Exec(ctx, query, customerID, productID)
	if err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("cart line", productID)
	}
	return nil
}

// Clear deletes every line in the customer's cart.
func (r *CartRepository) Clear(ctx context.Context, customerID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE customer_id = $1`, customerID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
