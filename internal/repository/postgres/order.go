package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mayankwalia/MyBasketBackend/internal/domain"
	"github.com/mayankwalia/MyBasketBackend/pkg/database"
	apperrors "github.com/mayankwalia/MyBasketBackend/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// decrementStock is the oversell guard: the conditional update only matches
// when enough stock remains, so concurrent checkouts of the same product are
// serialized by the row update and can never drive stock negative.
const decrementStock = `
	UPDATE products
	SET stock = stock - $2, updated_at = NOW()
	WHERE id = $1 AND stock >= $2
	RETURNING name, price, discount`

// PlaceOrder converts the customer's cart into an order in one transaction.
// Each cart line snapshots the discounted unit price into an order line and
// decrements the product's stock; the cart is emptied last. Any failure,
// including an oversell on a later line, rolls back every prior step.
func (r *OrderRepository) PlaceOrder(ctx context.Context, customerID, deliveryAddress string) (*domain.Order, error) {
	_, end := database.TraceQuery(ctx, "orders.place", decrementStock)

	order, err := r.placeOrder(ctx, customerID, deliveryAddress)
	end(err)
	return order, err
}

func (r *OrderRepository) placeOrder(ctx context.Context, customerID, deliveryAddress string) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT product_id, quantity FROM cart_lines WHERE customer_id = $1 ORDER BY created_at`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("load cart lines: %w", err)
	}

	type cartLine struct {
		productID string
		quantity  int
	}
	var lines []cartLine
	for rows.Next() {
		var l cartLine
		if err := rows.Scan(&l.productID, &l.quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}

	if len(lines) == 0 {
		return nil, apperrors.EmptyCart(customerID)
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:              uuid.New().String(),
		CustomerID:      customerID,
		Status:          domain.OrderStatusTransit,
		DeliveryAddress: deliveryAddress,
		PlacedAt:        now,
		UpdatedAt:       now,
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, customer_id, status, total_amount, delivery_address, placed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.CustomerID, order.Status, 0.0, order.DeliveryAddress, order.PlacedAt, order.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	var total float64
	for _, l := range lines {
		var (
			name     string
			price    float64
			discount float64
		)
		err := tx.QueryRow(ctx, decrementStock, l.productID, l.quantity).Scan(&name, &price, &discount)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.InsufficientStock(l.productID, l.quantity)
			}
			return nil, fmt.Errorf("decrement stock: %w", err)
		}

		line := domain.OrderLine{
			ID:               uuid.New().String(),
			OrderID:          order.ID,
			ProductID:        l.productID,
			ProductName:      name,
			Quantity:         l.quantity,
			PricePerQuantity: price * (1 - discount/100),
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO order_lines (id, order_id, product_id, product_name, quantity, price_per_quantity)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			line.ID, line.OrderID, line.ProductID, line.ProductName, line.Quantity, line.PricePerQuantity,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order line: %w", err)
		}

		total += line.PricePerQuantity * float64(line.Quantity)
		order.Lines = append(order.Lines, line)
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET total_amount = $2 WHERE id = $1`, order.ID, total); err != nil {
		return nil, fmt.Errorf("update order total: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE customer_id = $1`, customerID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	// The address given at checkout becomes the customer's saved delivery
	// address, inside the same transaction as the order.
	if deliveryAddress != "" {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET address = $2 WHERE id = $1`, customerID, deliveryAddress,
		); err != nil {
			return nil, fmt.Errorf("save delivery address: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	order.TotalAmount = total
	return order, nil
}

// GetByID retrieves an order with its lines.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx,
		`SELECT id, customer_id, status, total_amount, delivery_address, placed_at, updated_at
		FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.CustomerID, &o.Status, &o.TotalAmount, &o.DeliveryAddress, &o.PlacedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	lines, err := r.linesByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

func (r *OrderRepository) linesByOrder(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, product_id, product_name, quantity, price_per_quantity
		FROM order_lines WHERE order_id = $1`, orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.PricePerQuantity); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}
	return lines, nil
}

// ListByCustomer returns the customer's orders, newest first, with lines.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, customer_id, status, total_amount, delivery_address, placed_at, updated_at
		FROM orders WHERE customer_id = $1 ORDER BY placed_at DESC`, customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	index := make(map[string]int)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Status, &o.TotalAmount, &o.DeliveryAddress, &o.PlacedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	lineRows, err := r.pool.Query(ctx,
		`SELECT ol.id, ol.order_id, ol.product_id, ol.product_name, ol.quantity, ol.price_per_quantity
		FROM order_lines ol
		JOIN orders o ON o.id = ol.order_id
		WHERE o.customer_id = $1`, customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var l domain.OrderLine
		if err := lineRows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.PricePerQuantity); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		if i, ok := index[l.OrderID]; ok {
			orders[i].Lines = append(orders[i].Lines, l)
		}
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to a new status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, orderID, status,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("order", orderID)
	}
	return nil
}
