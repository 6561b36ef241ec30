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

func adminCap() domain.Capability {
	return domain.Capability{UserID: "admin-1", Role: domain.RoleAdmin}
}

func TestModerationService_Approve_RequiresAdmin(t *testing.T) {
	store, _ := newTestCache(t)
	svc := NewModerationService(new(mockModerationRepo), new(mockProductRepo), store, discardLogger)

	err := svc.Approve(context.Background(), managerCap(), "req-1")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestModerationService_Approve_AddCategoryInvalidatesCategoryList(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	store.SetJSON(ctx, cache.KeyCategories(), "warm", cache.TTLCategories)
	store.SetJSON(ctx, cache.KeyRequests(), "warm", cache.TTLRequests)

	req := &domain.ModerationRequest{ID: "req-1", Type: domain.RequestAddCategory, Name: "Dairy"}
	requests := new(mockModerationRepo)
	requests.On("GetByID", mock.Anything, "req-1").Return(req, nil)
	requests.On("Approve", mock.Anything, req).Return("cat-new", nil)

	svc := NewModerationService(requests, new(mockProductRepo), store, discardLogger)

	require.NoError(t, svc.Approve(ctx, adminCap(), "req-1"))

	var s string
	assert.False(t, store.GetJSON(ctx, cache.KeyCategories(), &s))
	assert.False(t, store.GetJSON(ctx, cache.KeyRequests(), &s))
}

func TestModerationService_Approve_RemoveCategoryReassignInvalidation(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	store.SetJSON(ctx, cache.KeyCategoryProducts("cat-5"), "warm", cache.TTLCategoryProducts)
	store.SetJSON(ctx, cache.KeyCategoryProducts(domain.DefaultCategoryID), "warm", cache.TTLCategoryProducts)
	store.SetJSON(ctx, cache.KeyCategoryProducts("cat-untouched"), "warm", cache.TTLCategoryProducts)
	store.SetJSON(ctx, cache.KeyProduct("prod-a"), "warm", cache.TTLProduct)
	store.SetJSON(ctx, cache.KeyAllProducts(), "warm", cache.TTLAllProducts)

	req := &domain.ModerationRequest{
		ID: "req-1", Type: domain.RequestRemoveCategory,
		CategoryID: "cat-5", Description: "obsolete:false",
	}
	requests := new(mockModerationRepo)
	requests.On("GetByID", mock.Anything, "req-1").Return(req, nil)
	requests.On("Approve", mock.Anything, req).Return("cat-5", nil)

	products := new(mockProductRepo)
	products.On("ListByCategory", mock.Anything, "cat-5").
		Return([]domain.Product{{ID: "prod-a", CategoryID: "cat-5", ManagerID: "mgr-1"}}, nil)

	svc := NewModerationService(requests, products, store, discardLogger)

	require.NoError(t, svc.Approve(ctx, adminCap(), "req-1"))

	var s string
	assert.False(t, store.GetJSON(ctx, cache.KeyCategoryProducts("cat-5"), &s))
	assert.False(t, store.GetJSON(ctx, cache.KeyCategoryProducts(domain.DefaultCategoryID), &s))
	assert.False(t, store.GetJSON(ctx, cache.KeyProduct("prod-a"), &s))
	assert.False(t, store.GetJSON(ctx, cache.KeyAllProducts(), &s))
	// Categories not involved in the removal keep their entries.
	assert.True(t, store.GetJSON(ctx, cache.KeyCategoryProducts("cat-untouched"), &s))
}

func TestModerationService_Approve_ApproveManagerInvalidatesUsers(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	store.SetJSON(ctx, cache.KeyUsers(), "warm", cache.TTLUsers)

	req := &domain.ModerationRequest{ID: "req-1", Type: domain.RequestApproveManager, RequestedBy: "mgr-1"}
	requests := new(mockModerationRepo)
	requests.On("GetByID", mock.Anything, "req-1").Return(req, nil)
	requests.On("Approve", mock.Anything, req).Return("", nil)

	svc := NewModerationService(requests, new(mockProductRepo), store, discardLogger)

	require.NoError(t, svc.Approve(ctx, adminCap(), "req-1"))

	var s string
	assert.False(t, store.GetJSON(ctx, cache.KeyUsers(), &s))
}

func TestModerationService_Decline_NotFoundPassesThrough(t *testing.T) {
	store, _ := newTestCache(t)

	requests := new(mockModerationRepo)
	requests.On("Decline", mock.Anything, "missing").
		Return(apperrors.NotFound("moderation request", "missing"))

	svc := NewModerationService(requests, new(mockProductRepo), store, discardLogger)

	err := svc.Decline(context.Background(), adminCap(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestModerationService_SubmitRequest_InvalidType(t *testing.T) {
	store, _ := newTestCache(t)
	svc := NewModerationService(new(mockModerationRepo), new(mockProductRepo), store, discardLogger)

	_, err := svc.SubmitRequest(context.Background(), managerCap(), &SubmitRequestInput{Type: "Promote"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequestType)
}

func TestModerationService_ListRequests_ReadThrough(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	requests := new(mockModerationRepo)
	requests.On("List", mock.Anything).
		Return([]domain.ModerationRequest{{ID: "req-1", Type: domain.RequestAddCategory}}, nil).Once()

	svc := NewModerationService(requests, new(mockProductRepo), store, discardLogger)

	first, err := svc.ListRequests(ctx, adminCap())
	require.NoError(t, err)
	second, err := svc.ListRequests(ctx, adminCap())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	requests.AssertNumberOfCalls(t, "List", 1)
}
