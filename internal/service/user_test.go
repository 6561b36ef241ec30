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

func TestUserService_Register_ManagerFilesActivationRequest(t *testing.T) {
	store, _ := newTestCache(t)
	ctx := context.Background()

	store.SetJSON(ctx, cache.KeyRequests(), "warm", cache.TTLRequests)
	store.SetJSON(ctx, cache.KeyUsers(), "warm", cache.TTLUsers)

	users := new(mockUserRepo)
	requests := new(mockModerationRepo)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return !u.Approved && u.Role == domain.RoleCustomer
	})).Return(nil)
	requests.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.ModerationRequest) bool {
		return r.Type == domain.RequestApproveManager
	})).Return(nil)

	svc := NewUserService(users, requests, store, discardLogger)

	u, err := svc.Register(ctx, &RegisterUserInput{
		Name: "Priya", Email: "priya@example.com", Manager: true,
	})
	require.NoError(t, err)
	assert.False(t, u.Approved)

	var s string
	assert.False(t, store.GetJSON(ctx, cache.KeyRequests(), &s))
	assert.False(t, store.GetJSON(ctx, cache.KeyUsers(), &s))
	requests.AssertExpectations(t)
}

func TestUserService_Register_CustomerStartsApproved(t *testing.T) {
	store, _ := newTestCache(t)

	users := new(mockUserRepo)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Approved && u.Active
	})).Return(nil)

	svc := NewUserService(users, new(mockModerationRepo), store, discardLogger)

	u, err := svc.Register(context.Background(), &RegisterUserInput{
		Name: "Ravi", Email: "ravi@example.com",
	})
	require.NoError(t, err)
	assert.True(t, u.Approved)
	users.AssertExpectations(t)
}

func TestUserService_Deactivate_AdminAccountsProtected(t *testing.T) {
	store, _ := newTestCache(t)

	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, "admin-2").
		Return(&domain.User{ID: "admin-2", Role: domain.RoleAdmin}, nil)

	svc := NewUserService(users, new(mockModerationRepo), store, discardLogger)

	err := svc.Deactivate(context.Background(), adminCap(), "admin-2")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	users.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Deactivate_SelfAllowed(t *testing.T) {
	store, _ := newTestCache(t)

	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, "cust-1").
		Return(&domain.User{ID: "cust-1", Role: domain.RoleCustomer}, nil)
	users.On("SetActive", mock.Anything, "cust-1", false).Return(nil)

	svc := NewUserService(users, new(mockModerationRepo), store, discardLogger)

	require.NoError(t, svc.Deactivate(context.Background(), customerCap(), "cust-1"))
	users.AssertExpectations(t)
}

func TestUserService_Reactivate_AdminOnly(t *testing.T) {
	store, _ := newTestCache(t)

	users := new(mockUserRepo)
	users.On("SetActive", mock.Anything, "cust-1", true).Return(nil)

	svc := NewUserService(users, new(mockModerationRepo), store, discardLogger)

	err := svc.Reactivate(context.Background(), customerCap(), "cust-1")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, svc.Reactivate(context.Background(), adminCap(), "cust-1"))
	users.AssertExpectations(t)
}
