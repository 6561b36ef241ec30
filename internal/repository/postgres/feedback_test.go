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

func newFeedbackRepo(t *testing.T) (*FeedbackRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })
	return NewFeedbackRepository(mock), mock
}

func TestFeedbackRepository_Add_RecomputesRatingBeforeCommit(t *testing.T) {
	repo, mock := newFeedbackRepo(t)

	f := &domain.Feedback{
		ID:         "fb-1",
		ProductID:  "prod-a",
		CustomerID: "cust-1",
		Rating:     4,
		Remarks:    "fresh and crisp",
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO feedback").
		WithArgs(f.ID, f.ProductID, f.CustomerID, f.Rating, f.Remarks, f.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE products").
		WithArgs("prod-a").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Add(context.Background(), f))
}

func TestFeedbackRepository_Add_RecomputeFailureRollsBackInsert(t *testing.T) {
	repo, mock := newFeedbackRepo(t)

	f := &domain.Feedback{
		ID: "fb-1", ProductID: "prod-a", CustomerID: "cust-1",
		Rating: 5, CreatedAt: time.Now().UTC(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO feedback").
		WithArgs(f.ID, f.ProductID, f.CustomerID, f.Rating, f.Remarks, f.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE products").
		WithArgs("prod-a").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	assert.Error(t, repo.Add(context.Background(), f))
}

func TestFeedbackRepository_Delete_RecomputesRating(t *testing.T) {
	repo, mock := newFeedbackRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM feedback").
		WithArgs("fb-1").
		WillReturnRows(pgxmock.NewRows([]string{"product_id"}).AddRow("prod-a"))
	mock.ExpectExec("UPDATE products").
		WithArgs("prod-a").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	productID, err := repo.Delete(context.Background(), "fb-1")
	require.NoError(t, err)
	assert.Equal(t, "prod-a", productID)
}

func TestFeedbackRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newFeedbackRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM feedback").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFeedbackRepository_ListByProduct(t *testing.T) {
	repo, mock := newFeedbackRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, product_id, customer_id").
		WithArgs("prod-a").
		WillReturnRows(pgxmock.NewRows([]string{"id", "product_id", "customer_id", "rating", "remarks", "created_at"}).
			AddRow("fb-2", "prod-a", "cust-2", 5, "great", now).
			AddRow("fb-1", "prod-a", "cust-1", 3, "ok", now.Add(-time.Hour)))

	feedback, err := repo.ListByProduct(context.Background(), "prod-a")
	require.NoError(t, err)
	require.Len(t, feedback, 2)
	assert.Equal(t, 5, feedback[0].Rating)
}
