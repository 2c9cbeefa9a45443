package domain

import "time"

// CartLineItem pairs a product with a quantity. Quantity is always >= 1
// while the item is in a cart.
type CartLineItem struct {
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// LineTotal is price x quantity.
func (i CartLineItem) LineTotal() int64 {
	return i.Product.Price * int64(i.Quantity)
}

// CartSnapshot is a read-only copy of the cart with its derived values.
type CartSnapshot struct {
	Items     []CartLineItem `json:"items"`
	ItemCount int            `json:"item_count"`
	Subtotal  int64          `json:"subtotal"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (s CartSnapshot) IsEmpty() bool {
	return len(s.Items) == 0
}
