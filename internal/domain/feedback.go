package domain

import "time"

// Feedback is a customer rating and remarks for a product. Each customer
// holds at most one feedback row per product.
type Feedback struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	CustomerID string    `json:"customer_id"`
	Rating     int       `json:"rating"`
	Remarks    string    `json:"remarks"`
	CreatedAt  time.Time `json:"created_at"`
}
