package domain

import (
	"errors"
	"time"
)

var ErrPriceAboveOriginal = errors.New("price must not exceed original price")

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	OriginalPrice *int64    `json:"original_price,omitempty"`
	Images        []string  `json:"images"`
	Category      string    `json:"category"`
	Rating        float64   `json:"rating"`
	Reviews       int       `json:"reviews"`
	InStock       bool      `json:"in_stock"`
	Tags          []string  `json:"tags"`
	IsDigital     bool      `json:"is_digital,omitempty"`
	IsBestSeller  bool      `json:"is_bestseller,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Validate checks the catalog invariant price <= originalPrice.
func (p Product) Validate() error {
	if p.OriginalPrice != nil && p.Price > *p.OriginalPrice {
		return ErrPriceAboveOriginal
	}
	return nil
}

// HasTag reports whether the product carries tag.
func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
