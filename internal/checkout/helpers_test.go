package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_cart/fitstore/internal/cart"
	"github.com/fjod/go_cart/fitstore/internal/domain"
	"github.com/stretchr/testify/require"
)

var (
	yogaMat = domain.Product{ID: "1", Name: "Premium Yoga Mat", Price: 1299}
	home    = domain.Address{
		ID: "1", Type: domain.AddressHome, Name: "John Doe", Phone: "+91 9876543210",
		AddressLine1: "123 Main Street, Apartment 4B", City: "Mumbai", State: "Maharashtra",
		PostalCode: "400001", IsDefault: true,
	}
)

// mockSubmitter replays errs in order, then succeeds.
type mockSubmitter struct {
	mu      sync.Mutex
	errs    []error
	calls   int
	orders  []*domain.Order
	release chan struct{} // when set, Submit blocks until closed
}

func (m *mockSubmitter) Submit(ctx context.Context, order *domain.Order) (Receipt, error) {
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.orders = append(m.orders, order)
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return Receipt{}, err
	}
	return Receipt{TransactionID: "TXN-1"}, nil
}

func (m *mockSubmitter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var errBroker = errors.New("broker unreachable")

func fastRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond, AttemptTimeout: time.Second}
}

func setupFlow(t *testing.T, sub Submitter) (*Flow, *cart.Store) {
	t.Helper()
	store := cart.NewStore()
	return NewFlow(store, sub, WithRetryPolicy(fastRetry())), store
}

// readyForReview fills the cart and walks the flow to the review step.
func readyForReview(t *testing.T, f *Flow, store *cart.Store, method *domain.PaymentMethod) {
	t.Helper()
	require.NoError(t, store.AddItem(yogaMat, 1))
	require.NoError(t, f.Begin())
	f.SelectAddress(home)
	_, err := f.Next()
	require.NoError(t, err)
	f.SelectPayment(*method)
	_, err = f.Next()
	require.NoError(t, err)
}

func newStoreWithItem(t *testing.T) *cart.Store {
	t.Helper()
	store := cart.NewStore()
	require.NoError(t, store.AddItem(yogaMat, 1))
	return store
}

func walkToReview(t *testing.T, f *Flow) {
	t.Helper()
	f.SelectAddress(home)
	f.SelectPayment(*card)
	_, err := f.Next()
	require.NoError(t, err)
	_, err = f.Next()
	require.NoError(t, err)
}
