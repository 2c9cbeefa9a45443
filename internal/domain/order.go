package domain

import "time"

// Order is the immutable snapshot captured when an order is placed. It is
// handed to the external order-management system and not kept here.
type Order struct {
	ID            string         `json:"order_id"`
	Items         []CartLineItem `json:"items"`
	Address       Address        `json:"address"`
	PaymentMethod PaymentMethod  `json:"payment_method"`
	Totals        Totals         `json:"totals"`
	TransactionID string         `json:"transaction_id,omitempty"`
	PlacedAt      time.Time      `json:"placed_at"`
}
