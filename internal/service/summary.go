package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mayankwalia/MyBasketBackend/internal/cache"
	"github.com/mayankwalia/MyBasketBackend/internal/domain"
	"github.com/mayankwalia/MyBasketBackend/internal/repository"
)

// SummaryService serves dashboard aggregations through the cache. These are
// read-only queries; short TTLs bound their staleness after checkouts.
type SummaryService struct {
	summaries repository.SummaryRepository
	cache     *cache.Store
	logger    *slog.Logger
}

// NewSummaryService creates the summary service.
func NewSummaryService(summaries repository.SummaryRepository, cacheStore *cache.Store, logger *slog.Logger) *SummaryService {
	return &SummaryService{summaries: summaries, cache: cacheStore, logger: logger}
}

// SalesByCategory returns revenue and units sold per category.
func (s *SummaryService) SalesByCategory(ctx context.Context, cap domain.Capability) ([]domain.CategorySales, error) {
	if err := cap.RequireRole(domain.RoleStoreManager, domain.RoleAdmin); err != nil {
		return nil, err
	}

	key := cache.KeySummary("sales_by_category")
	var sales []domain.CategorySales
	if s.cache.GetJSON(ctx, key, &sales) {
		return sales, nil
	}

	sales, err := s.summaries.SalesByCategory(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, sales, cache.TTLSummary)
	return sales, nil
}

// TopProducts returns the best sellers. Limit is part of the cache key so
// different dashboard widgets never share an entry.
func (s *SummaryService) TopProducts(ctx context.Context, cap domain.Capability, limit int) ([]domain.ProductSales, error) {
	if err := cap.RequireRole(domain.RoleStoreManager, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	key := cache.KeySummary(fmt.Sprintf("top_products:%d", limit))
	var sales []domain.ProductSales
	if s.cache.GetJSON(ctx, key, &sales) {
		return sales, nil
	}

	sales, err := s.summaries.TopProducts(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, sales, cache.TTLSummary)
	return sales, nil
}

// OrderStatusCounts returns the order pipeline breakdown for the dashboard.
func (s *SummaryService) OrderStatusCounts(ctx context.Context, cap domain.Capability) ([]domain.StatusCount, error) {
	if err := cap.RequireRole(domain.RoleStoreManager, domain.RoleAdmin); err != nil {
		return nil, err
	}

	key := cache.KeySummary("order_status_counts")
	var counts []domain.StatusCount
	if s.cache.GetJSON(ctx, key, &counts) {
		return counts, nil
	}

	counts, err := s.summaries.OrderStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, counts, cache.TTLSummary)
	return counts, nil
}
