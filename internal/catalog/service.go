// Package catalog is the read-only product catalog: browsing, filtering,
// quiz recommendations and single product lookups.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_cart/fitstore/internal/cache"
	"github.com/fjod/go_cart/fitstore/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const maxRelated = 4

type Service struct {
	repo  Reader
	cache cache.ProductCache
	sfg   singleflight.Group // collapses concurrent misses for one product
	log   *zap.Logger
}

func NewService(repo Reader, c cache.ProductCache, log *zap.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, cache: c, log: log}
}

// GetProduct reads through the cache. Cache errors are logged and the
// repository answers instead.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {
		p, err := s.cache.Get(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("cache get error", zap.String("product_id", id), zap.Error(err))
		}

		p, err = s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		go func(p domain.Product) {
			setCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := s.cache.Set(setCtx, &p); err != nil {
				s.log.Warn("cache set error", zap.String("product_id", p.ID), zap.Error(err))
			}
		}(*p)

		return p, nil
	})
	if err != nil {
		return nil, err
	}

	p := *v.(*domain.Product)
	return &p, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Recommend(ctx context.Context, answers QuizAnswers) (QuizResult, error) {
	products, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return QuizResult{}, err
	}
	return Recommend(products, answers), nil
}

// Related returns up to four other products from the same category.
func (s *Service) Related(ctx context.Context, id string) ([]domain.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	same, err := s.repo.List(ctx, Filter{Category: p.Category})
	if err != nil {
		return nil, err
	}

	related := make([]domain.Product, 0, maxRelated)
	for _, q := range same {
		if q.ID == p.ID {
			continue
		}
		related = append(related, q)
		if len(related) == maxRelated {
			break
		}
	}
	return related, nil
}
