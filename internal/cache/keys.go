package cache

import (
	"fmt"
	"time"
)

// Cache TTLs per query shape. Values are short on purpose; push-based
// invalidation keeps entries coherent, the TTL only bounds staleness when an
// invalidation is missed.
const (
	TTLProduct          = 10 * time.Second
	TTLOrderTracking    = 10 * time.Second
	TTLAllProducts      = 20 * time.Second
	TTLCategories       = 20 * time.Second
	TTLReviews          = 20 * time.Second
	TTLManagerProducts  = 20 * time.Second
	TTLRequests         = 20 * time.Second
	TTLUsers            = 20 * time.Second
	TTLSummary          = 20 * time.Second
	TTLCategoryProducts = 50 * time.Second
)

// CategoryProductsPrefix matches every per-category product listing key.
// Used for bulk invalidation when a category is removed outright.
const CategoryProductsPrefix = "category_products:"

// SummaryPrefix matches every dashboard summary key. A checkout changes all
// of them at once, so it invalidates the whole family by prefix.
const SummaryPrefix = "summary:"

// Key constructors. Every cached query derives its key from the operation
// name plus its arguments, so distinct parameterizations never collide.

func KeyProduct(productID string) string {
	return fmt.Sprintf("product:%s", productID)
}

func KeyAllProducts() string {
	return "products:all"
}

func KeyCategoryProducts(categoryID string) string {
	return CategoryProductsPrefix + categoryID
}

func KeyCategories() string {
	return "categories:all"
}

func KeyProductReviews(productID string) string {
	return fmt.Sprintf("reviews:%s", productID)
}

func KeyManagerProducts(managerID string) string {
	return fmt.Sprintf("manager_products:%s", managerID)
}

func KeyOrderTracking(customerID string) string {
	return fmt.Sprintf("track_orders:%s", customerID)
}

func KeyRequests() string {
	return "requests:all"
}

func KeyUsers() string {
	return "users:all"
}

func KeySummary(name string) string {
	return SummaryPrefix + name
}
