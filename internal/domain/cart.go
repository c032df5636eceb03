package domain

import "time"

// Product is the resolved product data attached to a cart line. Only the
// fields the checkout flow needs; catalog browsing is out of scope here.
type Product struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Edition string  `json:"edition,omitempty"`
	Stock   int     `json:"stock,omitempty"`
}

// CartItem is one cart line. Product may be nil when the referenced product
// could not be resolved; totals treat such lines as zero.
type CartItem struct {
	ID        string   `json:"id"`
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// ProductPage is one page of the product catalog.
type ProductPage struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Size     int       `json:"size"`
	Total    int       `json:"total"`
}
