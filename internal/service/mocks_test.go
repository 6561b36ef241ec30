package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"github.com/mayankwalia/MyBasketBackend/internal/cache"
	"github.com/mayankwalia/MyBasketBackend/internal/domain"
	"github.com/mayankwalia/MyBasketBackend/pkg/logger"
)

func newTestCache(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewStore(client, discardLogger), mr
}

var discardLogger = logger.NewWithWriter("service-test", "error", io.Discard)

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) PlaceOrder(ctx context.Context, customerID, deliveryAddress string) (*domain.Order, error) {
	args := m.Called(ctx, customerID, deliveryAddress)
	if o := args.Get(0); o != nil {
		return o.(*domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	args := m.Called(ctx, customerID)
	if o := args.Get(0); o != nil {
		return o.([]domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, orderID, status string) error {
	return m.Called(ctx, orderID, status).Error(0)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	args := m.Called(ctx, categoryID)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) ListByManager(ctx context.Context, managerID string) ([]domain.Product, error) {
	args := m.Called(ctx, managerID)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, p *domain.Product, stockDelta int) error {
	return m.Called(ctx, p, stockDelta).Error(0)
}

func (m *mockProductRepo) DeleteCascade(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*domain.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.([]domain.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}

type mockFeedbackRepo struct{ mock.Mock }

func (m *mockFeedbackRepo) Add(ctx context.Context, f *domain.Feedback) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockFeedbackRepo) Delete(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *mockFeedbackRepo) GetByID(ctx context.Context, id string) (*domain.Feedback, error) {
	args := m.Called(ctx, id)
	if f := args.Get(0); f != nil {
		return f.(*domain.Feedback), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFeedbackRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Feedback, error) {
	args := m.Called(ctx, productID)
	if f := args.Get(0); f != nil {
		return f.([]domain.Feedback), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockModerationRepo struct{ mock.Mock }

func (m *mockModerationRepo) Create(ctx context.Context, r *domain.ModerationRequest) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockModerationRepo) GetByID(ctx context.Context, id string) (*domain.ModerationRequest, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*domain.ModerationRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockModerationRepo) List(ctx context.Context) ([]domain.ModerationRequest, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.([]domain.ModerationRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockModerationRepo) Approve(ctx context.Context, r *domain.ModerationRequest) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

func (m *mockModerationRepo) Decline(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UpdateDeliveryDetails(ctx context.Context, id, address, phone string) error {
	return m.Called(ctx, id, address, phone).Error(0)
}

func (m *mockUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *mockUserRepo) RecordLogin(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *mockUserRepo) UsersInactiveSince(ctx context.Context, since time.Time) ([]domain.User, error) {
	args := m.Called(ctx, since)
	if u := args.Get(0); u != nil {
		return u.([]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UsersWithNoOrderSince(ctx context.Context, since time.Time) ([]domain.User, error) {
	args := m.Called(ctx, since)
	if u := args.Get(0); u != nil {
		return u.([]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSummaryRepo struct{ mock.Mock }

func (m *mockSummaryRepo) SalesByCategory(ctx context.Context) ([]domain.CategorySales, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.([]domain.CategorySales), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSummaryRepo) TopProducts(ctx context.Context, limit int) ([]domain.ProductSales, error) {
	args := m.Called(ctx, limit)
	if s := args.Get(0); s != nil {
		return s.([]domain.ProductSales), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSummaryRepo) OrderStatusCounts(ctx context.Context) ([]domain.StatusCount, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.([]domain.StatusCount), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) OrderPlaced(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockPublisher) OrderStatusChanged(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockPublisher) ProductDeleted(ctx context.Context, productID, categoryID string) error {
	return m.Called(ctx, productID, categoryID).Error(0)
}
