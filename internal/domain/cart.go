package domain

import "time"

// CartLine is one product entry in a customer's cart. A customer holds at
// most one line per product; adding again adjusts the quantity.
type CartLine struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	ProductID  string    `json:"product_id"`
	Quantity   int       `json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
}

// CartItem is a cart line joined with its product for display and checkout.
type CartItem struct {
	CartLine
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	Stock       int     `json:"stock"`
}

// LineTotal returns the discounted cost of the line.
func (c CartItem) LineTotal() float64 {
	return c.UnitPrice * (1 - c.Discount/100) * float64(c.Quantity)
}
