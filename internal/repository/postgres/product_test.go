package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayankwalia/MyBasketBackend/internal/domain"
	"github.com/mayankwalia/MyBasketBackend/pkg/database"
	apperrors "github.com/mayankwalia/MyBasketBackend/pkg/errors"
)

func newProductRepo(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })
	return NewProductRepository(mock), mock
}

func TestProductRepository_GetByID(t *testing.T) {
	repo, mock := newProductRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs("prod-a").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "description", "price", "discount", "stock", "unit",
			"category_id", "manager_id", "average_rating", "created_at", "updated_at",
		}).AddRow("prod-a", "Apples", "crisp", 100.0, 10.0, 25, "kg", "cat-5", "mgr-1", 4.2, now, now))

	p, err := repo.GetByID(context.Background(), "prod-a")
	require.NoError(t, err)
	assert.Equal(t, "Apples", p.Name)
	assert.InDelta(t, 90.0, p.DiscountedPrice(), 0.001)
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newProductRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductRepository_DeleteCascade(t *testing.T) {
	repo, mock := newProductRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT category_id FROM products").
		WithArgs("prod-a").
		WillReturnRows(pgxmock.NewRows([]string{"category_id"}).AddRow("cat-5"))
	mock.ExpectExec("DELETE FROM cart_lines").
		WithArgs("prod-a").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM order_lines").
		WithArgs("prod-a").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("DELETE FROM feedback").
		WithArgs("prod-a").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec("DELETE FROM products").
		WithArgs("prod-a").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	categoryID, err := repo.DeleteCascade(context.Background(), "prod-a")
	require.NoError(t, err)
	assert.Equal(t, "cat-5", categoryID)
}

func TestProductRepository_DeleteCascade_NotFound(t *testing.T) {
	repo, mock := newProductRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT category_id FROM products").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.DeleteCascade(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductRepository_DeleteCascade_MidwayFailureRollsBack(t *testing.T) {
	repo, mock := newProductRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT category_id FROM products").
		WithArgs("prod-a").
		WillReturnRows(pgxmock.NewRows([]string{"category_id"}).AddRow("cat-5"))
	mock.ExpectExec("DELETE FROM cart_lines").
		WithArgs("prod-a").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM order_lines").
		WithArgs("prod-a").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.DeleteCascade(context.Background(), "prod-a")
	assert.Error(t, err)
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	repo, mock := newProductRepo(t)

	p := &domain.Product{ID: "missing", Name: "Ghost", CategoryID: "cat-5"}

	mock.ExpectExec("UPDATE products").
		WithArgs(p.ID, p.Name, p.Description, p.Price, p.Discount, 0, p.Unit, p.CategoryID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), p, 0)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductRepository_Update_StockDeltaGuarded(t *testing.T) {
	repo, mock := newProductRepo(t)

	p := &domain.Product{ID: "prod-a", Name: "Apples", CategoryID: "cat-5"}

	// The guard refuses a delta that would take stock below zero; zero rows
	// means the row's current stock could not absorb it.
	mock.ExpectExec("UPDATE products").
		WithArgs(p.ID, p.Name, p.Description, p.Price, p.Discount, -30, p.Unit, p.CategoryID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), p, -30)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
}

func TestProductRepository_Update_AppliesStockRelatively(t *testing.T) {
	repo, mock := newProductRepo(t)

	p := &domain.Product{ID: "prod-a", Name: "Apples", CategoryID: "cat-5"}

	mock.ExpectExec("UPDATE products").
		WithArgs(p.ID, p.Name, p.Description, p.Price, p.Discount, 15, p.Unit, p.CategoryID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.Update(context.Background(), p, 15))
}
