package domain

import "time"

// Product is a catalog item. Stock never goes negative and AverageRating is
// always the mean of the product's feedback ratings, or 0 with no feedback.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Discount      float64   `json:"discount"`
	Stock         int       `json:"stock"`
	Unit          string    `json:"unit"`
	CategoryID    string    `json:"category_id"`
	ManagerID     string    `json:"manager_id,omitempty"`
	AverageRating float64   `json:"average_rating"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DiscountedPrice returns the effective per-unit price after discount. Order
// lines snapshot this value at checkout time.
func (p Product) DiscountedPrice() float64 {
	return p.Price * (1 - p.Discount/100)
}
