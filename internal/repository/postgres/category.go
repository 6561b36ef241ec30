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

// CategoryRepository implements repository.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	pool database.DBTX
}

// NewCategoryRepository creates a PostgreSQL-backed category repository.
func NewCategoryRepository(pool database.DBTX) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, name, description, COALESCE(owner_id::text, ''), created_at`

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	query := `
		INSERT INTO categories (id, name, description, owner_id, created_at)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5)`

	_, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Description, c.OwnerID, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "name", c.Name)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID retrieves a category by ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	var c domain.Category
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.OwnerID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("category", id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.OwnerID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// Update rewrites a category's name and description.
func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	query := `UPDATE categories SET name = $2, description = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "name", c.Name)
		}
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("category", c.ID)
	}
	return nil
}
