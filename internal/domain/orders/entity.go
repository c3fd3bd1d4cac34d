// internal/domain/orders/entity.go
package orders

import (
	"time"

	"github.com/your-org/storefront-client/internal/domain/products"
)

// Item is one order line. Subtotal is computed by the server.
type Item struct {
	ID        uint              `json:"id"`
	ProductID uint              `json:"product_id"`
	Quantity  int               `json:"quantity"`
	UnitPrice float64           `json:"unit_price"`
	Subtotal  float64           `json:"subtotal"`
	Product   *products.Product `json:"product,omitempty"`
}

// Order is immutable from the client's perspective once created; the
// API offers only create and list. Status values are opaque strings.
type Order struct {
	ID          uint      `json:"id"`
	OrderNumber string    `json:"order_number"`
	Total       float64   `json:"total"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	Items       []Item    `json:"items"`
}

// FormData carries the checkout fields for order creation
type FormData struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
}
