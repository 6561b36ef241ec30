package domain

import "time"

// Order status values. New orders start in transit; only managers and admins
// may move an order through the remaining states.
const (
	OrderStatusPending   = "Pending"
	OrderStatusTransit   = "Transit"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
	OrderStatusReturned  = "Returned"
)

// Order is a placed purchase. CustomerID is immutable after creation.
type Order struct {
	ID              string      `json:"id"`
	CustomerID      string      `json:"customer_id"`
	Status          string      `json:"status"`
	TotalAmount     float64     `json:"total_amount"`
	DeliveryAddress string      `json:"delivery_address"`
	Lines           []OrderLine `json:"lines,omitempty"`
	PlacedAt        time.Time   `json:"placed_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderLine records one product purchase within an order. PricePerQuantity is
// a snapshot of the discounted unit price at order time and is never
// recomputed from the current product price.
type OrderLine struct {
	ID               string  `json:"id"`
	OrderID          string  `json:"order_id"`
	ProductID        string  `json:"product_id"`
	ProductName      string  `json:"product_name"`
	Quantity         int     `json:"quantity"`
	PricePerQuantity float64 `json:"price_per_quantity"`
}

// ValidOrderStatuses returns all recognized order statuses.
func ValidOrderStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusTransit,
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusReturned,
	}
}

// IsValidOrderStatus checks if a status string is recognized.
func IsValidOrderStatus(status string) bool {
	for _, s := range ValidOrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
