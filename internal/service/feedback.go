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

// AddFeedbackInput holds the parameters for adding feedback.
type AddFeedbackInput struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Remarks   string `json:"remarks" validate:"max=2000"`
}

// FeedbackService manages product ratings. Every mutation recomputes the
// product's average rating inside the repository transaction, so the listing
// caches invalidated here always refill with a consistent aggregate.
type FeedbackService struct {
	feedback repository.FeedbackRepository
	products repository.ProductRepository
	cache    *cache.Store
	logger   *slog.Logger
}

// NewFeedbackService creates the feedback service.
func NewFeedbackService(
	feedback repository.FeedbackRepository,
	products repository.ProductRepository,
	cacheStore *cache.Store,
	logger *slog.Logger,
) *FeedbackService {
	return &FeedbackService{
		feedback: feedback,
		products: products,
		cache:    cacheStore,
		logger:   logger,
	}
}

// AddFeedback records a rating for a product.
func (s *FeedbackService) AddFeedback(ctx context.Context, cap domain.Capability, input *AddFeedbackInput) (*domain.Feedback, error) {
	if err := cap.RequireRole(domain.RoleCustomer); err != nil {
		return nil, err
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}

	f := &domain.Feedback{
		ID:         uuid.New().String(),
		ProductID:  input.ProductID,
		CustomerID: cap.UserID,
		Rating:     input.Rating,
		Remarks:    input.Remarks,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.feedback.Add(ctx, f); err != nil {
		return nil, err
	}

	s.invalidateRatingCaches(ctx, input.ProductID)

	s.logger.InfoContext(ctx, "feedback added",
		slog.String("feedback_id", f.ID),
		slog.String("product_id", f.ProductID),
		slog.Int("rating", f.Rating),
	)
	return f, nil
}

// DeleteFeedback removes a feedback row. Only its author or an admin may
// delete it.
func (s *FeedbackService) DeleteFeedback(ctx context.Context, cap domain.Capability, feedbackID string) error {
	f, err := s.feedback.GetByID(ctx, feedbackID)
	if err != nil {
		return err
	}
	if cap.Role != domain.RoleAdmin && !cap.IsOwner(f.CustomerID) {
		return apperrors.PermissionDenied("feedback belongs to another customer")
	}

	productID, err := s.feedback.Delete(ctx, feedbackID)
	if err != nil {
		return err
	}

	s.invalidateRatingCaches(ctx, productID)
	return nil
}

// ListFeedback returns a product's feedback through the cache.
func (s *FeedbackService) ListFeedback(ctx context.Context, productID string) ([]domain.Feedback, error) {
	key := cache.KeyProductReviews(productID)
	var feedback []domain.Feedback
	if s.cache.GetJSON(ctx, key, &feedback) {
		return feedback, nil
	}

	feedback, err := s.feedback.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, feedback, cache.TTLReviews)
	return feedback, nil
}

// invalidateRatingCaches drops every key whose payload carries the product's
// average rating: the product itself, its reviews, and the listings it
// appears in.
func (s *FeedbackService) invalidateRatingCaches(ctx context.Context, productID string) {
	keys := []string{
		cache.KeyProduct(productID),
		cache.KeyProductReviews(productID),
		cache.KeyAllProducts(),
	}
	if p, err := s.products.GetByID(ctx, productID); err == nil {
		keys = append(keys, cache.KeyCategoryProducts(p.CategoryID))
		if p.ManagerID != "" {
			keys = append(keys, cache.KeyManagerProducts(p.ManagerID))
		}
	}
	s.cache.Delete(ctx, keys...)
}
