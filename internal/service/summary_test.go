package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mayankwalia/MyBasketBackend/internal/cache"
	"github.com/mayankwalia/MyBasketBackend/internal/domain"
	apperrors "github.com/mayankwalia/MyBasketBackend/pkg/errors"
)

func TestSummaryService_SalesByCategory_CustomerDenied(t *testing.T) {
	store, _ := newTestCache(t)
	svc := NewSummaryService(new(mockSummaryRepo), store, discardLogger)

	_, err := svc.SalesByCategory(context.Background(), customerCap())
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestSummaryService_TopProducts_LimitIsPartOfTheKey(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	summaries := new(mockSummaryRepo)
	summaries.On("TopProducts", mock.Anything, 5).
		Return([]domain.ProductSales{{ProductID: "prod-a", UnitsSold: 50}}, nil).Once()
	summaries.On("TopProducts", mock.Anything, 20).
		Return([]domain.ProductSales{{ProductID: "prod-a", UnitsSold: 50}, {ProductID: "prod-b", UnitsSold: 30}}, nil).Once()

	svc := NewSummaryService(summaries, store, discardLogger)

	five, err := svc.TopProducts(ctx, managerCap(), 5)
	require.NoError(t, err)
	twenty, err := svc.TopProducts(ctx, managerCap(), 20)
	require.NoError(t, err)
	assert.Len(t, five, 1)
	assert.Len(t, twenty, 2)

	// Repeats inside the TTL come from the cache, one entry per limit.
	_, err = svc.TopProducts(ctx, managerCap(), 5)
	require.NoError(t, err)
	_, err = svc.TopProducts(ctx, managerCap(), 20)
	require.NoError(t, err)
	summaries.AssertExpectations(t)
}

func TestSummaryService_TopProducts_BadLimitFallsBackToDefault(t *testing.T) {
	store, _ := newTestCache(t)

	summaries := new(mockSummaryRepo)
	summaries.On("TopProducts", mock.Anything, 10).
		Return([]domain.ProductSales{}, nil)

	svc := NewSummaryService(summaries, store, discardLogger)

	_, err := svc.TopProducts(context.Background(), adminCap(), -3)
	require.NoError(t, err)
	summaries.AssertCalled(t, "TopProducts", mock.Anything, 10)
}

func TestSummaryService_OrderStatusCounts_CacheIdempotence(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	summaries := new(mockSummaryRepo)
	summaries.On("OrderStatusCounts", mock.Anything).
		Return([]domain.StatusCount{{Status: domain.OrderStatusTransit, Count: 4}}, nil).Once()

	svc := NewSummaryService(summaries, store, discardLogger)

	first, err := svc.OrderStatusCounts(ctx, adminCap())
	require.NoError(t, err)
	second, err := svc.OrderStatusCounts(ctx, adminCap())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	summaries.AssertNumberOfCalls(t, "OrderStatusCounts", 1)

	// A status change drops the key before the TTL does.
	store.Delete(ctx, cache.KeySummary("order_status_counts"))
	summaries.On("OrderStatusCounts", mock.Anything).
		Return([]domain.StatusCount{{Status: domain.OrderStatusDelivered, Count: 5}}, nil).Once()

	_, err = svc.OrderStatusCounts(ctx, adminCap())
	require.NoError(t, err)
	summaries.AssertNumberOfCalls(t, "OrderStatusCounts", 2)
}
