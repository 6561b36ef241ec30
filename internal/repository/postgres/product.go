package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mayankwalia/MyBasketBackend/internal/domain"
	"github.com/mayankwalia/MyBasketBackend/pkg/database"
	apperrors "github.com/mayankwalia/MyBasketBackend/pkg/errors"
)

const productColumns = `id, name, description, price, discount, stock, unit, category_id, COALESCE(manager_id::text, ''), average_rating, created_at, updated_at`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Discount, &p.Stock,
		&p.Unit, &p.CategoryID, &p.ManagerID, &p.AverageRating,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, discount, stock, unit, category_id, manager_id, average_rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Discount, p.Stock,
		p.Unit, p.CategoryID, p.ManagerID, p.AverageRating,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product", "name", p.Name)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List returns all products ordered by name.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	_, end := database.TraceQuery(ctx, "products.list", "SELECT FROM products")

	query := `SELECT ` + productColumns + ` FROM products ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		end(err)
		return nil, fmt.Errorf("list products: %w", err)
	}

	products, err := collectProducts(rows)
	end(err)
	return products, err
}

// ListByCategory returns all products in a category ordered by name.
func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category_id = $1 ORDER BY name`

	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return collectProducts(rows)
}

// ListByManager returns the products owned by a store manager.
func (r *ProductRepository) ListByManager(ctx context.Context, managerID string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE manager_id = $1 ORDER BY name`

	rows, err := r.pool.Query(ctx, query, managerID)
	if err != nil {
		return nil, fmt.Errorf("list products by manager: %w", err)
	}
	return collectProducts(rows)
}

// Update rewrites the product's editable fields. Stock moves by stockDelta in
// the same statement, guarded to stay non-negative, so it composes with the
// checkout decrement instead of overwriting it.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product, stockDelta int) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, discount = $5,
			stock = stock + $6, unit = $7, category_id = $8, updated_at = NOW()
		WHERE id = $1 AND stock + $6 >= 0`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Discount, stockDelta, p.Unit, p.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if stockDelta < 0 {
			return apperrors.InsufficientStock(p.ID, -stockDelta)
		}
		return apperrors.NotFound("product", p.ID)
	}
	return nil
}

// DeleteCascade removes the product and everything referencing it in one
// transaction: cart lines, order lines, and feedback first, then the product.
func (r *ProductRepository) DeleteCascade(ctx context.Context, id string) (string, error) {
	_, end := database.TraceQuery(ctx, "products.delete_cascade", "DELETE FROM products")

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		end(err)
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var categoryID string
	err = tx.QueryRow(ctx, `SELECT category_id FROM products WHERE id = $1`, id).Scan(&categoryID)
	if err != nil {
		end(err)
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NotFound("product", id)
		}
		return "", fmt.Errorf("get product category: %w", err)
	}

	for _, stmt := range []string{
		`DELETE FROM cart_lines WHERE product_id = $1`,
		`DELETE FROM order_lines WHERE product_id = $1`,
		`DELETE FROM feedback WHERE product_id = $1`,
		`DELETE FROM products WHERE id = $1`,
	} {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			end(err)
			return "", fmt.Errorf("cascade delete product: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		end(err)
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	end(nil)
	return categoryID, nil
}
