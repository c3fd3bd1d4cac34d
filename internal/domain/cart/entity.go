// internal/domain/cart/entity.go
package cart

import "github.com/your-org/storefront-client/internal/domain/products"

// Item is one cart line. UnitPrice is a snapshot taken when the item was
// added and may differ from the live product price.
type Item struct {
	ID        uint              `json:"id"`
	ProductID uint              `json:"product_id"`
	Quantity  int               `json:"quantity"`
	UnitPrice float64           `json:"unit_price"`
	Product   *products.Product `json:"product,omitempty"`
}

// Cart mirrors the server-side cart
type Cart struct {
	ID    uint   `json:"id"`
	Items []Item `json:"items"`
}

// addItemRequest is the add-to-cart request body
type addItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}
