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

func customerCap() domain.Capability {
	return domain.Capability{UserID: "cust-1", Role: domain.RoleCustomer}
}

func placedOrder() *domain.Order {
	return &domain.Order{
		ID:         "order-1",
		CustomerID: "cust-1",
		Status:     domain.OrderStatusTransit,
		Lines: []domain.OrderLine{
			{ID: "line-1", OrderID: "order-1", ProductID: "prod-a", Quantity: 3, PricePerQuantity: 90},
		},
		TotalAmount: 270,
	}
}

func TestCheckoutService_PlaceOrder_InvalidatesCaches(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	// Warm the keys the checkout must drop, plus one it must not touch.
	store.SetJSON(ctx, cache.KeyAllProducts(), "warm", cache.TTLAllProducts)
	store.SetJSON(ctx, cache.KeyOrderTracking("cust-1"), "warm", cache.TTLOrderTracking)
	store.SetJSON(ctx, cache.KeyProduct("prod-a"), "warm", cache.TTLProduct)
	store.SetJSON(ctx, cache.KeyCategoryProducts("cat-5"), "warm", cache.TTLCategoryProducts)
	store.SetJSON(ctx, cache.KeyCategoryProducts("cat-other"), "warm", cache.TTLCategoryProducts)
	store.SetJSON(ctx, cache.KeySummary("sales_by_category"), "warm", cache.TTLSummary)

	orders := new(mockOrderRepo)
	products := new(mockProductRepo)
	events := new(mockPublisher)

	orders.On("PlaceOrder", mock.Anything, "cust-1", "12 High St").Return(placedOrder(), nil)
	products.On("GetByID", mock.Anything, "prod-a").
		Return(&domain.Product{ID: "prod-a", CategoryID: "cat-5", ManagerID: "mgr-1"}, nil)
	events.On("OrderPlaced", mock.Anything, mock.Anything).Return(nil)

	svc := NewCheckoutService(orders, products, store, events, discardLogger)

	order, err := svc.PlaceOrder(ctx, customerCap(), "12 High St")
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)

	var s string
	assert.False(t, store.GetJSON(ctx, cache.KeyAllProducts(), &s))
	assert.False(t, store.GetJSON(ctx, cache.KeyOrderTracking("cust-1"), &s))
	assert.False(t, store.GetJSON(ctx, cache.KeyProduct("prod-a"), &s))
	assert.False(t, store.GetJSON(ctx, cache.KeyCategoryProducts("cat-5"), &s))
	assert.False(t, store.GetJSON(ctx, cache.KeySummary("sales_by_category"), &s))
	// Unrelated parameterization survives.
	assert.True(t, store.GetJSON(ctx, cache.KeyCategoryProducts("cat-other"), &s))

	orders.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestCheckoutService_PlaceOrder_RequiresCustomerRole(t *testing.T) {
	store, _ := newTestCache(t)
	svc := NewCheckoutService(new(mockOrderRepo), new(mockProductRepo), store, new(mockPublisher), discardLogger)

	_, err := svc.PlaceOrder(context.Background(),
		domain.Capability{UserID: "mgr-1", Role: domain.RoleStoreManager}, "addr")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCheckoutService_PlaceOrder_InsufficientStockPassesThrough(t *testing.T) {
	store, _ := newTestCache(t)
	orders := new(mockOrderRepo)
	orders.On("PlaceOrder", mock.Anything, "cust-1", "addr").
		Return(nil, apperrors.InsufficientStock("prod-b", 10))

	svc := NewCheckoutService(orders, new(mockProductRepo), store, new(mockPublisher), discardLogger)

	_, err := svc.PlaceOrder(context.Background(), customerCap(), "addr")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
}

func TestCheckoutService_TrackOrders_ReadThrough(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	orders := new(mockOrderRepo)
	orders.On("ListByCustomer", mock.Anything, "cust-1").
		Return([]domain.Order{*placedOrder()}, nil).Once()

	svc := NewCheckoutService(orders, new(mockProductRepo), store, new(mockPublisher), discardLogger)

	first, err := svc.TrackOrders(ctx, customerCap())
	require.NoError(t, err)
	second, err := svc.TrackOrders(ctx, customerCap())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Second read was served from cache; the repo saw exactly one query.
	orders.AssertNumberOfCalls(t, "ListByCustomer", 1)
}

func TestCheckoutService_GetOrder_UnknownRoleDenied(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	orders := new(mockOrderRepo)
	svc := NewCheckoutService(orders, new(mockProductRepo), store, new(mockPublisher), discardLogger)

	// No gateway headers means an empty capability; it must not read anything.
	_, err := svc.GetOrder(ctx, domain.Capability{}, "order-1")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Same for a role string the service does not recognize.
	_, err = svc.GetOrder(ctx, domain.Capability{UserID: "u-1", Role: "auditor"}, "order-1")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	orders.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCheckoutService_GetOrder_CustomerSeesOnlyOwn(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	orders := new(mockOrderRepo)
	orders.On("GetByID", mock.Anything, "order-1").Return(placedOrder(), nil)

	svc := NewCheckoutService(orders, new(mockProductRepo), store, new(mockPublisher), discardLogger)

	order, err := svc.GetOrder(ctx, customerCap(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, "cust-1", order.CustomerID)

	other := domain.Capability{UserID: "cust-2", Role: domain.RoleCustomer}
	_, err = svc.GetOrder(ctx, other, "order-1")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	mgr := domain.Capability{UserID: "mgr-1", Role: domain.RoleStoreManager}
	_, err = svc.GetOrder(ctx, mgr, "order-1")
	assert.NoError(t, err)
}

func TestCheckoutService_UpdateOrderStatus_InvalidStatus(t *testing.T) {
	store, _ := newTestCache(t)
	svc := NewCheckoutService(new(mockOrderRepo), new(mockProductRepo), store, new(mockPublisher), discardLogger)

	err := svc.UpdateOrderStatus(context.Background(), customerCap(), "order-1", "Shipped")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
}

func TestCheckoutService_UpdateOrderStatus_CustomerMayOnlyCancelOwnOrder(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	orders := new(mockOrderRepo)
	orders.On("GetByID", mock.Anything, "order-1").Return(placedOrder(), nil)
	orders.On("UpdateStatus", mock.Anything, "order-1", domain.OrderStatusCancelled).Return(nil)

	events := new(mockPublisher)
	events.On("OrderStatusChanged", mock.Anything, mock.Anything).Return(nil)

	svc := NewCheckoutService(orders, new(mockProductRepo), store, events, discardLogger)

	// Own order, cancel: allowed.
	require.NoError(t, svc.UpdateOrderStatus(ctx, customerCap(), "order-1", domain.OrderStatusCancelled))

	// Own order, other status: denied.
	err := svc.UpdateOrderStatus(ctx, customerCap(), "order-1", domain.OrderStatusDelivered)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Someone else's order: denied.
	other := domain.Capability{UserID: "cust-2", Role: domain.RoleCustomer}
	err = svc.UpdateOrderStatus(ctx, other, "order-1", domain.OrderStatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCheckoutService_UpdateOrderStatus_ManagerInvalidatesTracking(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	store.SetJSON(ctx, cache.KeyOrderTracking("cust-1"), "warm", cache.TTLOrderTracking)

	orders := new(mockOrderRepo)
	orders.On("GetByID", mock.Anything, "order-1").Return(placedOrder(), nil)
	orders.On("UpdateStatus", mock.Anything, "order-1", domain.OrderStatusDelivered).Return(nil)

	events := new(mockPublisher)
	events.On("OrderStatusChanged", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.Status == domain.OrderStatusDelivered
	})).Return(nil)

	svc := NewCheckoutService(orders, new(mockProductRepo), store, events, discardLogger)

	mgr := domain.Capability{UserID: "mgr-1", Role: domain.RoleStoreManager}
	require.NoError(t, svc.UpdateOrderStatus(ctx, mgr, "order-1", domain.OrderStatusDelivered))

	var s string
	assert.False(t, store.GetJSON(ctx, cache.KeyOrderTracking("cust-1"), &s))
	events.AssertExpectations(t)
}

func TestCheckoutService_DeleteProduct_OwnershipCheck(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	products := new(mockProductRepo)
	products.On("GetByID", mock.Anything, "prod-a").
		Return(&domain.Product{ID: "prod-a", CategoryID: "cat-5", ManagerID: "mgr-1"}, nil)

	svc := NewCheckoutService(new(mockOrderRepo), products, store, new(mockPublisher), discardLogger)

	// A different manager cannot delete.
	other := domain.Capability{UserID: "mgr-2", Role: domain.RoleStoreManager}
	err := svc.DeleteProduct(ctx, other, "prod-a")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// A customer cannot delete at all.
	err = svc.DeleteProduct(ctx, customerCap(), "prod-a")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCheckoutService_DeleteProduct_AdminCascades(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	store.SetJSON(ctx, cache.KeyProduct("prod-a"), "warm", cache.TTLProduct)
	store.SetJSON(ctx, cache.KeyProductReviews("prod-a"), "warm", cache.TTLReviews)
	store.SetJSON(ctx, cache.KeyCategoryProducts("cat-5"), "warm", cache.TTLCategoryProducts)

	products := new(mockProductRepo)
	products.On("GetByID", mock.Anything, "prod-a").
		Return(&domain.Product{ID: "prod-a", CategoryID: "cat-5", ManagerID: "mgr-1"}, nil)
	products.On("DeleteCascade", mock.Anything, "prod-a").Return("cat-5", nil)

	events := new(mockPublisher)
	events.On("ProductDeleted", mock.Anything, "prod-a", "cat-5").Return(nil)

	svc := NewCheckoutService(new(mockOrderRepo), products, store, events, discardLogger)

	admin := domain.Capability{UserID: "admin-1", Role: domain.RoleAdmin}
	require.NoError(t, svc.DeleteProduct(ctx, admin, "prod-a"))

	var s string
	assert.False(t, store.GetJSON(ctx, cache.KeyProduct("prod-a"), &s))
	assert.False(t, store.GetJSON(ctx, cache.KeyProductReviews("prod-a"), &s))
	assert.False(t, store.GetJSON(ctx, cache.KeyCategoryProducts("cat-5"), &s))
	events.AssertExpectations(t)
}
