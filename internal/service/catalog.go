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

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Discount    float64 `json:"discount" validate:"gte=0,lte=100"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Unit        string  `json:"unit" validate:"required"`
	CategoryID  string  `json:"category_id" validate:"required,uuid"`
}

// UpdateProductInput holds the parameters for updating a product.
type UpdateProductInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Discount    float64 `json:"discount" validate:"gte=0,lte=100"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Unit        string  `json:"unit" validate:"required"`
	CategoryID  string  `json:"category_id" validate:"required,uuid"`
}

// CategoryInput holds the parameters for creating or updating a category
// directly, outside the moderation queue.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=80"`
	Description string `json:"description" validate:"max=2000"`
}

// CatalogService serves product and category reads through the cache and
// handles catalog mutations by managers.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	cache      *cache.Store
	logger     *slog.Logger
}

// NewCatalogService creates the catalog service.
func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	cacheStore *cache.Store,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		cache:      cacheStore,
		logger:     logger,
	}
}

// GetProduct returns one product through the cache.
func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	key := cache.KeyProduct(productID)
	var p domain.Product
	if s.cache.GetJSON(ctx, key, &p) {
		return &p, nil
	}

	fresh, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, fresh, cache.TTLProduct)
	return fresh, nil
}

// ListProducts returns the whole catalog through the cache.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	key := cache.KeyAllProducts()
	var products []domain.Product
	if s.cache.GetJSON(ctx, key, &products) {
		return products, nil
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, products, cache.TTLAllProducts)
	return products, nil
}

// ListCategoryProducts returns one category's products through the cache.
// Each category is its own key so invalidating one never clears another.
func (s *CatalogService) ListCategoryProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	key := cache.KeyCategoryProducts(categoryID)
	var products []domain.Product
	if s.cache.GetJSON(ctx, key, &products) {
		return products, nil
	}

	products, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, products, cache.TTLCategoryProducts)
	return products, nil
}

// ListCategories returns all categories through the cache.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	key := cache.KeyCategories()
	var categories []domain.Category
	if s.cache.GetJSON(ctx, key, &categories) {
		return categories, nil
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, categories, cache.TTLCategories)
	return categories, nil
}

// ListManagerProducts returns the caller's own products through the cache.
func (s *CatalogService) ListManagerProducts(ctx context.Context, cap domain.Capability) ([]domain.Product, error) {
	if err := cap.RequireRole(domain.RoleStoreManager, domain.RoleAdmin); err != nil {
		return nil, err
	}

	key := cache.KeyManagerProducts(cap.UserID)
	var products []domain.Product
	if s.cache.GetJSON(ctx, key, &products) {
		return products, nil
	}

	products, err := s.products.ListByManager(ctx, cap.UserID)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, products, cache.TTLManagerProducts)
	return products, nil
}

// CreateCategory adds a category directly. Admin only; managers go through
// the moderation queue instead.
func (s *CatalogService) CreateCategory(ctx context.Context, cap domain.Capability, input *CategoryInput) (*domain.Category, error) {
	if err := cap.RequireRole(domain.RoleAdmin); err != nil {
		return nil, err
	}

	c := &domain.Category{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     cap.UserID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, cache.KeyCategories())

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", c.ID),
		slog.String("name", c.Name),
	)
	return c, nil
}

// RenameCategory rewrites a category's name and description directly. Admin
// only.
func (s *CatalogService) RenameCategory(ctx context.Context, cap domain.Capability, categoryID string, input *CategoryInput) (*domain.Category, error) {
	if err := cap.RequireRole(domain.RoleAdmin); err != nil {
		return nil, err
	}

	c, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	c.Name = input.Name
	c.Description = input.Description
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, cache.KeyCategories())
	return c, nil
}

// CreateProduct adds a catalog item owned by the calling manager.
func (s *CatalogService) CreateProduct(ctx context.Context, cap domain.Capability, input *CreateProductInput) (*domain.Product, error) {
	if err := cap.RequireRole(domain.RoleStoreManager, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Discount:    input.Discount,
		Stock:       input.Stock,
		Unit:        input.Unit,
		CategoryID:  input.CategoryID,
		ManagerID:   cap.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx,
		cache.KeyAllProducts(),
		cache.KeyCategoryProducts(p.CategoryID),
		cache.KeyManagerProducts(cap.UserID),
	)

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", p.ID),
		slog.String("category_id", p.CategoryID),
		slog.String("manager_id", cap.UserID),
	)
	return p, nil
}

// UpdateProduct rewrites a product's editable fields. Only the owning
// manager or an admin may update. Moving categories invalidates both the
// old and the new per-category listings.
func (s *CatalogService) UpdateProduct(ctx context.Context, cap domain.Capability, productID string, input *UpdateProductInput) (*domain.Product, error) {
	existing, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if cap.Role != domain.RoleAdmin {
		if err := cap.RequireRole(domain.RoleStoreManager); err != nil {
			return nil, err
		}
		if !cap.IsOwner(existing.ManagerID) {
			return nil, apperrors.PermissionDenied("product belongs to another manager")
		}
	}

	if input.CategoryID != existing.CategoryID {
		if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
			return nil, err
		}
	}

	updated := *existing
	updated.Name = input.Name
	updated.Description = input.Description
	updated.Price = input.Price
	updated.Discount = input.Discount
	updated.Stock = input.Stock
	updated.Unit = input.Unit
	updated.CategoryID = input.CategoryID

	// Stock travels as a delta relative to the row we read, so a checkout
	// that decremented in between is folded in rather than overwritten.
	if err := s.products.Update(ctx, &updated, input.Stock-existing.Stock); err != nil {
		return nil, err
	}

	keys := []string{
		cache.KeyProduct(productID),
		cache.KeyAllProducts(),
		cache.KeyCategoryProducts(existing.CategoryID),
	}
	if input.CategoryID != existing.CategoryID {
		keys = append(keys, cache.KeyCategoryProducts(input.CategoryID))
	}
	if existing.ManagerID != "" {
		keys = append(keys, cache.KeyManagerProducts(existing.ManagerID))
	}
	s.cache.Delete(ctx, keys...)

	return &updated, nil
}
