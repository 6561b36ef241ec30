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

// ModerationRepository implements repository.ModerationRepository using PostgreSQL.
type ModerationRepository struct {
	pool database.DBTX
}

// NewModerationRepository creates a PostgreSQL-backed moderation repository.
func NewModerationRepository(pool database.DBTX) *ModerationRepository {
	return &ModerationRepository{pool: pool}
}

// Create inserts a pending moderation request.
func (r *ModerationRepository) Create(ctx context.Context, req *domain.ModerationRequest) error {
	if !domain.IsValidRequestType(req.Type) {
		return apperrors.InvalidRequestType(req.Type)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO moderation_requests (id, request_type, category_id, name, description, requested_by, created_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7)`,
		req.ID, req.Type, req.CategoryID, req.Name, req.Description, req.RequestedBy, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert moderation request: %w", err)
	}
	return nil
}

// GetByID retrieves a pending request.
func (r *ModerationRepository) GetByID(ctx context.Context, id string) (*domain.ModerationRequest, error) {
	var req domain.ModerationRequest
	err := r.pool.QueryRow(ctx,
		`SELECT id, request_type, COALESCE(category_id::text, ''), name, description, requested_by, created_at
		FROM moderation_requests WHERE id = $1`, id,
	).Scan(&req.ID, &req.Type, &req.CategoryID, &req.Name, &req.Description, &req.RequestedBy, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("moderation request", id)
		}
		return nil, fmt.Errorf("get moderation request: %w", err)
	}
	return &req, nil
}

// List returns all pending requests, oldest first.
func (r *ModerationRepository) List(ctx context.Context) ([]domain.ModerationRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, request_type, COALESCE(category_id::text, ''), name, description, requested_by, created_at
		FROM moderation_requests ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list moderation requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.ModerationRequest
	for rows.Next() {
		var req domain.ModerationRequest
		if err := rows.Scan(&req.ID, &req.Type, &req.CategoryID, &req.Name, &req.Description, &req.RequestedBy, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan moderation request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderation requests: %w", err)
	}
	return requests, nil
}

// Approve applies the request's side effects and deletes it, all in one
// transaction. Requests are resolved by deletion; no history row remains.
func (r *ModerationRepository) Approve(ctx context.Context, req *domain.ModerationRequest) (string, error) {
	_, end := database.TraceQuery(ctx, "moderation.approve", req.Type)

	categoryID, err := r.approve(ctx, req)
	end(err)
	return categoryID, err
}

func (r *ModerationRepository) approve(ctx context.Context, req *domain.ModerationRequest) (string, error) {
	// Unknown types never touch the request row.
	if !domain.IsValidRequestType(req.Type) {
		return "", apperrors.InvalidRequestType(req.Type)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var categoryID string
	switch req.Type {
	case domain.RequestAddCategory:
		// The requesting manager becomes the category owner. Only the cleaned
		// description lands in the row; the cascade flag is RemoveCategory's.
		categoryID = uuid.New().String()
		_, err := tx.Exec(ctx,
			`INSERT INTO categories (id, name, description, owner_id, created_at)
			VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5)`,
			categoryID, req.Name, req.DescriptionText(), req.RequestedBy, time.Now().UTC(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return "", apperrors.AlreadyExists("category", "name", req.Name)
			}
			return "", fmt.Errorf("create category: %w", err)
		}

	case domain.RequestUpdateCategory:
		tag, err := tx.Exec(ctx,
			`UPDATE categories SET name = $2, description = $3 WHERE id = $1`,
			req.CategoryID, req.Name, req.DescriptionText(),
		)
		if err != nil {
			return "", fmt.Errorf("update category: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return "", apperrors.NotFound("category", req.CategoryID)
		}
		categoryID = req.CategoryID

	case domain.RequestRemoveCategory:
		if err := removeCategory(ctx, tx, req.CategoryID, req.RemoveCascade()); err != nil {
			return "", err
		}
		categoryID = req.CategoryID

	case domain.RequestApproveManager:
		tag, err := tx.Exec(ctx,
			`UPDATE users SET approved = TRUE, role = $2 WHERE id = $1`,
			req.RequestedBy, domain.RoleStoreManager,
		)
		if err != nil {
			return "", fmt.Errorf("approve manager: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return "", apperrors.NotFound("user", req.RequestedBy)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM moderation_requests WHERE id = $1`, req.ID)
	if err != nil {
		return "", fmt.Errorf("delete moderation request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return "", apperrors.NotFound("moderation request", req.ID)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	return categoryID, nil
}

// removeCategory either cascade-deletes the category's products or reassigns
// them to the default category, then deletes the category itself.
func removeCategory(ctx context.Context, tx pgx.Tx, categoryID string, cascade bool) error {
	if categoryID == domain.DefaultCategoryID {
		return apperrors.Validation("the default category cannot be removed")
	}

	if cascade {
		for _, stmt := range []string{
			`DELETE FROM cart_lines WHERE product_id IN (SELECT id FROM products WHERE category_id = $1)`,
			`DELETE FROM order_lines WHERE product_id IN (SELECT id FROM products WHERE category_id = $1)`,
			`DELETE FROM feedback WHERE product_id IN (SELECT id FROM products WHERE category_id = $1)`,
			`DELETE FROM products WHERE category_id = $1`,
		} {
			if _, err := tx.Exec(ctx, stmt, categoryID); err != nil {
				return fmt.Errorf("cascade delete category products: %w", err)
			}
		}
	} else {
		_, err := tx.Exec(ctx,
			`UPDATE products SET category_id = $2, updated_at = NOW() WHERE category_id = $1`,
			categoryID, domain.DefaultCategoryID,
		)
		if err != nil {
			return fmt.Errorf("reassign category products: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, categoryID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("category", categoryID)
	}
	return nil
}

// Decline deletes a pending request without applying its side effects.
func (r *ModerationRepository) Decline(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM moderation_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("decline moderation request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("moderation request", id)
	}
	return nil
}
