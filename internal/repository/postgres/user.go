package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mayankwalia/MyBasketBackend/internal/domain"
	"github.com/mayankwalia/MyBasketBackend/pkg/database"
	apperrors "github.com/mayankwalia/MyBasketBackend/pkg/errors"
)

const userColumns = `id, name, email, role, address, phone, approved, active, last_login, created_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a PostgreSQL-backed user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &u.Address, &u.Phone,
		&u.Approved, &u.Active, &u.LastLogin, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, role, address, phone, approved, active, last_login, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Name, u.Email, u.Role, u.Address, u.Phone,
		u.Approved, u.Active, u.LastLogin, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// List returns all users ordered by creation time.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return collectUsers(rows)
}

// UpdateDeliveryDetails rewrites the user's address and phone.
func (r *UserRepository) UpdateDeliveryDetails(ctx context.Context, id, address, phone string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET address = $2, phone = $3 WHERE id = $1`, id, address, phone,
	)
	if err != nil {
		return fmt.Errorf("update delivery details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}
	return nil
}

// SetActive flips the account-active flag.
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}
	return nil
}

// RecordLogin stamps the user's last login time.
func (r *UserRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}
	return nil
}

// UsersInactiveSince returns active customers who have not logged in since
// the given time. Polled by the reminder job.
func (r *UserRepository) UsersInactiveSince(ctx context.Context, since time.Time) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = $1 AND active AND (last_login IS NULL OR last_login < $2)
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, domain.RoleCustomer, since)
	if err != nil {
		return nil, fmt.Errorf("list inactive users: %w", err)
	}
	return collectUsers(rows)
}

// UsersWithNoOrderSince returns active customers whose latest order predates
// the given time, including customers with no orders at all.
func (r *UserRepository) UsersWithNoOrderSince(ctx context.Context, since time.Time) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		WHERE u.role = $1 AND u.active
			AND NOT EXISTS (
				SELECT 1 FROM orders o WHERE o.customer_id = u.id AND o.placed_at >= $2
			)
		ORDER BY u.created_at`

	rows, err := r.pool.Query(ctx, query, domain.RoleCustomer, since)
	if err != nil {
		return nil, fmt.Errorf("list users with no recent order: %w", err)
	}
	return collectUsers(rows)
}
