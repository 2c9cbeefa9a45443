package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_cart/fitstore/internal/cache"
	"github.com/fjod/go_cart/fitstore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCache struct {
	mu     sync.Mutex
	items  map[string]domain.Product
	getErr error
	sets   int
}

func newMockCache() *mockCache {
	return &mockCache{items: make(map[string]domain.Product)}
}

func (m *mockCache) Get(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.items[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return &p, nil
}

func (m *mockCache) Set(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[p.ID] = *p
	m.sets++
	return nil
}

func (m *mockCache) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

type countingReader struct {
	Reader
	mu   sync.Mutex
	gets int
}

func (c *countingReader) Get(ctx context.Context, id string) (*domain.Product, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	return c.Reader.Get(ctx, id)
}

func (c *countingReader) Gets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets
}

func setupService(t *testing.T) (*Service, *countingReader, *mockCache) {
	reader := &countingReader{Reader: setupTestDB(t)}
	c := newMockCache()
	return NewService(reader, c, nil), reader, c
}

func TestGetProduct_ReadsThroughCache(t *testing.T) {
	svc, reader, c := setupService(t)

	p, err := svc.GetProduct(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Adjustable Dumbbells Set", p.Name)
	assert.Equal(t, 1, reader.Gets())

	require.Eventually(t, func() bool { return c.Sets() == 1 }, time.Second, 10*time.Millisecond)

	p, err = svc.GetProduct(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Adjustable Dumbbells Set", p.Name)
	assert.Equal(t, 1, reader.Gets())
}

func TestGetProduct_CacheErrorFallsBackToRepository(t *testing.T) {
	svc, reader, c := setupService(t)
	c.getErr = errors.New("redis down")

	p, err := svc.GetProduct(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Resistance Bands Set", p.Name)
	assert.Equal(t, 1, reader.Gets())
}

func TestGetProduct_NotFound(t *testing.T) {
	svc, _, c := setupService(t)

	_, err := svc.GetProduct(context.Background(), "404")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Zero(t, c.Sets())
}

func TestGetProduct_ReturnsCopy(t *testing.T) {
	svc, _, _ := setupService(t)

	p, err := svc.GetProduct(context.Background(), "1")
	require.NoError(t, err)
	p.Name = "changed"

	again, err := svc.GetProduct(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Premium Yoga Mat", again.Name)
}

func TestService_Recommend(t *testing.T) {
	svc, _, _ := setupService(t)

	res, err := svc.Recommend(context.Background(), QuizAnswers{Goal: "muscle-building"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3", "7"}, ids(res.Recommendations))
}

func TestService_Related(t *testing.T) {
	svc, _, _ := setupService(t)

	related, err := svc.Related(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, ids(related))

	_, err = svc.Related(context.Background(), "404")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
