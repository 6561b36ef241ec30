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

// recomputeRating refreshes the product's average rating from its feedback
// rows. Run inside the same transaction as the feedback mutation; the product
// row update serializes concurrent recomputes for the same product.
const recomputeRating = `
	UPDATE products
	SET average_rating = COALESCE((SELECT AVG(rating) FROM feedback WHERE product_id = $1), 0)
	WHERE id = $1`

// FeedbackRepository implements repository.FeedbackRepository using PostgreSQL.
type FeedbackRepository struct {
	pool database.DBTX
}

// NewFeedbackRepository creates a PostgreSQL-backed feedback repository.
func NewFeedbackRepository(pool database.DBTX) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

// Add inserts feedback and recomputes the product's average rating before
// committing, so the aggregate is never stale relative to the feedback set.
func (r *FeedbackRepository) Add(ctx context.Context, f *domain.Feedback) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO feedback (id, product_id, customer_id, rating, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.ProductID, f.CustomerID, f.Rating, f.Remarks, f.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("feedback", "product", f.ProductID)
		}
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("product", f.ProductID)
		}
		return fmt.Errorf("insert feedback: %w", err)
	}

	if _, err := tx.Exec(ctx, recomputeRating, f.ProductID); err != nil {
		return fmt.Errorf("recompute average rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Delete removes a feedback row and recomputes the product's average rating
// in the same transaction. Returns the affected product ID.
func (r *FeedbackRepository) Delete(ctx context.Context, id string) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var productID string
	err = tx.QueryRow(ctx,
		`DELETE FROM feedback WHERE id = $1 RETURNING product_id`, id,
	).Scan(&productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NotFound("feedback", id)
		}
		return "", fmt.Errorf("delete feedback: %w", err)
	}

	if _, err := tx.Exec(ctx, recomputeRating, productID); err != nil {
		return "", fmt.Errorf("recompute average rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	return productID, nil
}

// GetByID retrieves one feedback row.
func (r *FeedbackRepository) GetByID(ctx context.Context, id string) (*domain.Feedback, error) {
	var f domain.Feedback
	err := r.pool.QueryRow(ctx,
		`SELECT id, product_id, customer_id, rating, remarks, created_at FROM feedback WHERE id = $1`, id,
	).Scan(&f.ID, &f.ProductID, &f.CustomerID, &f.Rating, &f.Remarks, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("feedback", id)
		}
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	return &f, nil
}

// ListByProduct returns a product's feedback, newest first.
func (r *FeedbackRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Feedback, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, customer_id, rating, remarks, created_at
		FROM feedback WHERE product_id = $1 ORDER BY created_at DESC`, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var feedback []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		if err := rows.Scan(&f.ID, &f.ProductID, &f.CustomerID, &f.Rating, &f.Remarks, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		feedback = append(feedback, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}
	return feedback, nil
}
