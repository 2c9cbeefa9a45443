// Package cache holds catalog products close to the API.
package cache

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/fitstore/internal/domain"
)

type ProductCache interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product) error
}

var ErrCacheMiss = errors.New("cache miss")

// Noop never holds anything. Used when no Redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (*domain.Product, error) {
	return nil, ErrCacheMiss
}

func (Noop) Set(context.Context, *domain.Product) error {
	return nil
}
