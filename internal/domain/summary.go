package domain

// CategorySales aggregates sold units and revenue per category for the
// manager dashboard.
type CategorySales struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	UnitsSold    int     `json:"units_sold"`
	Revenue      float64 `json:"revenue"`
}

// ProductSales aggregates sold units and revenue per product.
type ProductSales struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitsSold   int     `json:"units_sold"`
	Revenue     float64 `json:"revenue"`
}

// StatusCount is the number of orders currently in a given status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}
