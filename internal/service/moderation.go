package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mayankwalia/MyBasketBackend/internal/cache"
	"github.com/mayankwalia/MyBasketBackend/internal/domain"
	"github.com/mayankwalia/MyBasketBackend/internal/repository"
	apperrors "github.com/mayankwalia/MyBasketBackend/pkg/errors"
)

// SubmitRequestInput holds the parameters for a new moderation request.
type SubmitRequestInput struct {
	Type        string `json:"type" validate:"required"`
	CategoryID  string `json:"category_id" validate:"omitempty,uuid"`
	Name        string `json:"name" validate:"max=120"`
	Description string `json:"description" validate:"max=2000"`
}

// ModerationService runs the admin approval workflow for category changes
// and manager activation.
type ModerationService struct {
	requests repository.ModerationRepository
	products repository.ProductRepository
	cache    *cache.Store
	logger   *slog.Logger
}

// NewModerationService creates the moderation service.
func NewModerationService(
	requests repository.ModerationRepository,
	products repository.ProductRepository,
	cacheStore *cache.Store,
	logger *slog.Logger,
) *ModerationService {
	return &ModerationService{
		requests: requests,
		products: products,
		cache:    cacheStore,
		logger:   logger,
	}
}

// SubmitRequest files a pending request. Managers request category changes;
// manager activation requests arrive from the signup flow.
func (s *ModerationService) SubmitRequest(ctx context.Context, cap domain.Capability, input *SubmitRequestInput) (*domain.ModerationRequest, error) {
	if err := cap.RequireRole(domain.RoleStoreManager, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !domain.IsValidRequestType(input.Type) {
		return nil, apperrors.InvalidRequestType(input.Type)
	}

	req := &domain.ModerationRequest{
		ID:          uuid.New().String(),
		Type:        input.Type,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		RequestedBy: cap.UserID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, cache.KeyRequests())

	s.logger.InfoContext(ctx, "moderation request submitted",
		slog.String("request_id", req.ID),
		slog.String("type", req.Type),
	)
	return req, nil
}

// ListRequests returns all pending requests through the cache. Admin only.
func (s *ModerationService) ListRequests(ctx context.Context, cap domain.Capability) ([]domain.ModerationRequest, error) {
	if err := cap.RequireRole(domain.RoleAdmin); err != nil {
		return nil, err
	}

	key := cache.KeyRequests()
	var requests []domain.ModerationRequest
	if s.cache.GetJSON(ctx, key, &requests) {
		return requests, nil
	}

	requests, err := s.requests.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, requests, cache.TTLRequests)
	return requests, nil
}

// Approve applies a pending request. The repository applies the side effects
// and deletes the request in one transaction; this layer invalidates exactly
// the keys each branch changed.
func (s *ModerationService) Approve(ctx context.Context, cap domain.Capability, requestID string) error {
	if err := cap.RequireRole(domain.RoleAdmin); err != nil {
		return err
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	// RemoveCategory mutates products that disappear or move; capture their
	// keys before the transaction makes them unreachable.
	var productKeys []string
	if req.Type == domain.RequestRemoveCategory {
		products, err := s.products.ListByCategory(ctx, req.CategoryID)
		if err != nil {
			return err
		}
		for _, p := range products {
			productKeys = append(productKeys, cache.KeyProduct(p.ID))
			if req.RemoveCascade() {
				productKeys = append(productKeys, cache.KeyProductReviews(p.ID))
			}
			if p.ManagerID != "" {
				productKeys = append(productKeys, cache.KeyManagerProducts(p.ManagerID))
			}
		}
	}

	categoryID, err := s.requests.Approve(ctx, req)
	if err != nil {
		return err
	}

	keys := []string{cache.KeyRequests()}
	switch req.Type {
	case domain.RequestAddCategory, domain.RequestUpdateCategory:
		keys = append(keys, cache.KeyCategories())
		if req.Type == domain.RequestUpdateCategory {
			keys = append(keys, cache.KeyCategoryProducts(categoryID))
		}
	case domain.RequestRemoveCategory:
		keys = append(keys, cache.KeyCategories(), cache.KeyAllProducts(),
			cache.KeyCategoryProducts(categoryID))
		if !req.RemoveCascade() {
			// Reassigned products now show up under the default category.
			keys = append(keys, cache.KeyCategoryProducts(domain.DefaultCategoryID))
		}
		keys = append(keys, productKeys...)
	case domain.RequestApproveManager:
		keys = append(keys, cache.KeyUsers())
	}
	s.cache.Delete(ctx, keys...)

	s.logger.InfoContext(ctx, "moderation request approved",
		slog.String("request_id", requestID),
		slog.String("type", req.Type),
	)
	return nil
}

// Decline deletes a pending request without side effects. Admin only.
func (s *ModerationService) Decline(ctx context.Context, cap domain.Capability, requestID string) error {
	if err := cap.RequireRole(domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.requests.Decline(ctx, requestID); err != nil {
		return err
	}

	s.cache.Delete(ctx, cache.KeyRequests())

	s.logger.InfoContext(ctx, "moderation request declined",
		slog.String("request_id", requestID),
	)
	return nil
}
