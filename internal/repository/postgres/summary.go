package postgres

import (
	"context"
	"fmt"

	"github.com/mayankwalia/MyBasketBackend/internal/domain"
	"github.com/mayankwalia/MyBasketBackend/pkg/database"
)

// SummaryRepository implements repository.SummaryRepository using PostgreSQL.
// These are read-only dashboard aggregations over orders and order lines.
type SummaryRepository struct {
	pool database.DBTX
}

// NewSummaryRepository creates a PostgreSQL-backed summary repository.
func NewSummaryRepository(pool database.DBTX) *SummaryRepository {
	return &SummaryRepository{pool: pool}
}

// SalesByCategory aggregates sold units and revenue per category. Order lines
// snapshot product data, so the product join only supplies the category; lines
// for deleted products fall out of the aggregation.
func (r *SummaryRepository) SalesByCategory(ctx context.Context) ([]domain.CategorySales, error) {
	query := `
		SELECT c.id, c.name,
			COALESCE(SUM(ol.quantity), 0) AS units_sold,
			COALESCE(SUM(ol.quantity * ol.price_per_quantity), 0) AS revenue
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		LEFT JOIN order_lines ol ON ol.product_id = p.id
		GROUP BY c.id, c.name
		ORDER BY revenue DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sales by category: %w", err)
	}
	defer rows.Close()

	var sales []domain.CategorySales
	for rows.Next() {
		var s domain.CategorySales
		if err := rows.Scan(&s.CategoryID, &s.CategoryName, &s.UnitsSold, &s.Revenue); err != nil {
			return nil, fmt.Errorf("scan category sales: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category sales: %w", err)
	}
	return sales, nil
}

// TopProducts returns the best-selling products by units sold.
func (r *SummaryRepository) TopProducts(ctx context.Context, limit int) ([]domain.ProductSales, error) {
	query := `
		SELECT ol.product_id, ol.product_name,
			SUM(ol.quantity) AS units_sold,
			SUM(ol.quantity * ol.price_per_quantity) AS revenue
		FROM order_lines ol
		GROUP BY ol.product_id, ol.product_name
		ORDER BY units_sold DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var sales []domain.ProductSales
	for rows.Next() {
		var s domain.ProductSales
		if err := rows.Scan(&s.ProductID, &s.ProductName, &s.UnitsSold, &s.Revenue); err != nil {
			return nil, fmt.Errorf("scan product sales: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product sales: %w", err)
	}
	return sales, nil
}

// OrderStatusCounts returns the number of orders per status.
func (r *SummaryRepository) OrderStatusCounts(ctx context.Context) ([]domain.StatusCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM orders GROUP BY status ORDER BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("order status counts: %w", err)
	}
	defer rows.Close()

	var counts []domain.StatusCount
	for rows.Next() {
		var c domain.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}
