// internal/domain/products/entity.go
package products

import "time"

// Product mirrors one product row from the storefront API
type Product struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	OutOfStock  bool      `json:"out_of_stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// Meta mirrors the server-side pagination block. It is always replaced
// together with the product list from the same response.
type Meta struct {
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	From        int `json:"from"`
	To          int `json:"to"`
}

// FormData carries the writable product fields for create and update
type FormData struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// listResponse is the paginated listing envelope
type listResponse struct {
	Data []Product `json:"data"`
	Meta Meta      `json:"meta"`
}
