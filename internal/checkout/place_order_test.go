package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fjod/go_cart/fitstore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrder_Success(t *testing.T) {
	sub := &mockSubmitter{}
	f, store := setupFlow(t, sub)
	readyForReview(t, f, store, cod)

	order, err := f.PlaceOrder(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "TXN-1", order.TransactionID)
	assert.Equal(t, int64(1782), order.Totals.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "1", order.Items[0].Product.ID)
	assert.Equal(t, "1", order.Address.ID)
	assert.Equal(t, domain.PaymentCOD, order.PaymentMethod.Type)

	assert.True(t, store.Snapshot().IsEmpty())
	st := f.State()
	assert.Equal(t, domain.StepAddress, st.Step)
	assert.Nil(t, st.Address)
	assert.Nil(t, st.PaymentMethod)
	assert.False(t, st.Processing)
}

func TestPlaceOrder_SnapshotTakenBeforeClear(t *testing.T) {
	sub := &mockSubmitter{}
	f, store := setupFlow(t, sub)
	readyForReview(t, f, store, card)

	_, err := f.PlaceOrder(context.Background())
	require.NoError(t, err)

	require.Len(t, sub.orders, 1)
	assert.Len(t, sub.orders[0].Items, 1, "submitted order must carry the items")
}

func TestPrepare_ClaimsTokenBeforeSubmit(t *testing.T) {
	sub := &mockSubmitter{}
	f, store := setupFlow(t, sub)
	readyForReview(t, f, store, card)

	pending, err := f.Prepare()
	require.NoError(t, err)
	assert.True(t, f.Processing())
	assert.Len(t, pending.Order().Items, 1)
	assert.Zero(t, sub.Calls())

	_, err = f.Prepare()
	assert.ErrorIs(t, err, ErrOrderInProgress)

	order, err := f.Submit(context.Background(), pending)
	require.NoError(t, err)
	assert.Equal(t, pending.Order().ID, order.ID)
	assert.True(t, store.Snapshot().IsEmpty())

	_, err = f.Submit(context.Background(), pending)
	assert.ErrorIs(t, err, ErrNotPrepared)
	assert.Equal(t, 1, sub.Calls())
}

func TestSubmit_RequiresPrepare(t *testing.T) {
	sub := &mockSubmitter{}
	f, store := setupFlow(t, sub)
	readyForReview(t, f, store, card)

	_, err := f.Submit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotPrepared)
	_, err = f.Submit(context.Background(), &Submission{token: "forged"})
	assert.ErrorIs(t, err, ErrNotPrepared)
	assert.Zero(t, sub.Calls())
	assert.False(t, store.Snapshot().IsEmpty())
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f, store := setupFlow(t, &mockSubmitter{})
	readyForReview(t, f, store, card)
	store.Clear()

	_, err := f.PlaceOrder(context.Background())

	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, domain.StepReview, f.State().Step)
}

func TestPlaceOrder_MissingAddress(t *testing.T) {
	sub := &mockSubmitter{}
	f, store := setupFlow(t, sub)
	readyForReview(t, f, store, card)
	f.ClearAddress()

	_, err := f.PlaceOrder(context.Background())

	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, domain.StepAddress, pe.Step)
	assert.ErrorIs(t, err, ErrAddressRequired)

	assert.Equal(t, 0, sub.Calls())
	assert.Len(t, store.Snapshot().Items, 1)
	st := f.State()
	assert.Equal(t, domain.StepReview, st.Step)
	assert.NotNil(t, st.PaymentMethod)
}

func TestPlaceOrder_MissingPayment(t *testing.T) {
	f, store := setupFlow(t, &mockSubmitter{})
	require.NoError(t, store.AddItem(yogaMat, 1))
	f.SelectAddress(home)

	_, err := f.PlaceOrder(context.Background())

	assert.ErrorIs(t, err, ErrPaymentRequired)
	assert.Len(t, store.Snapshot().Items, 1)
}

func TestPlaceOrder_NotAtReview(t *testing.T) {
	f, store := setupFlow(t, &mockSubmitter{})
	require.NoError(t, store.AddItem(yogaMat, 1))
	f.SelectAddress(home)
	f.SelectPayment(*card)

	_, err := f.PlaceOrder(context.Background())

	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, ErrNotAtReview)
	assert.Equal(t, domain.StepAddress, pe.Step)
}

func TestPlaceOrder_RetriesRetryableFailures(t *testing.T) {
	sub := &mockSubmitter{errs: []error{errBroker, NewTimeoutError(context.DeadlineExceeded)}}
	f, store := setupFlow(t, sub)
	readyForReview(t, f, store, card)

	order, err := f.PlaceOrder(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, 3, sub.Calls())
	assert.True(t, store.Snapshot().IsEmpty())
}

func TestPlaceOrder_GivesUpAfterMaxAttempts(t *testing.T) {
	sub := &mockSubmitter{errs: []error{errBroker, errBroker, errBroker, errBroker}}
	f, store := setupFlow(t, sub)
	readyForReview(t, f, store, card)

	_, err := f.PlaceOrder(context.Background())

	var se *SubmissionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, SubmissionNetwork, se.Kind)
	assert.ErrorIs(t, err, errBroker)
	assert.Equal(t, 3, sub.Calls())

	// nothing was lost
	assert.Len(t, store.Snapshot().Items, 1)
	st := f.State()
	assert.Equal(t, domain.StepReview, st.Step)
	assert.False(t, st.Processing)
}

func TestPlaceOrder_RejectedIsNotRetried(t *testing.T) {
	sub := &mockSubmitter{errs: []error{NewRejectedError(errors.New("card declined"))}}
	f, store := setupFlow(t, sub)
	readyForReview(t, f, store, card)

	_, err := f.PlaceOrder(context.Background())

	var se *SubmissionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, SubmissionRejected, se.Kind)
	assert.False(t, se.Retryable)
	assert.Equal(t, 1, sub.Calls())
	assert.Len(t, store.Snapshot().Items, 1)
}

func TestPlaceOrder_RejectsConcurrentSubmission(t *testing.T) {
	sub := &mockSubmitter{release: make(chan struct{})}
	f, store := setupFlow(t, sub)
	readyForReview(t, f, store, card)

	type result struct {
		order *domain.Order
		err   error
	}
	done := make(chan result, 1)
	go func() {
		order, err := f.PlaceOrder(context.Background())
		done <- result{order, err}
	}()

	require.Eventually(t, f.Processing, time.Second, time.Millisecond)
	assert.NotEmpty(t, f.State().SubmissionToken)

	_, err := f.PlaceOrder(context.Background())
	assert.ErrorIs(t, err, ErrOrderInProgress)
	assert.ErrorIs(t, f.Begin(), ErrOrderInProgress)
	assert.ErrorIs(t, f.Reset(), ErrOrderInProgress)

	close(sub.release)
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, 1, sub.Calls())
	assert.False(t, f.Processing())
}

func TestPlaceOrder_CancelledContextKeepsCart(t *testing.T) {
	sub := &mockSubmitter{release: make(chan struct{})}
	f, store := setupFlow(t, sub)
	readyForReview(t, f, store, card)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.PlaceOrder(ctx)
		done <- err
	}()

	require.Eventually(t, f.Processing, time.Second, time.Millisecond)
	cancel()
	err := <-done

	var se *SubmissionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, SubmissionAborted, se.Kind)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, store.Snapshot().Items, 1)
	assert.False(t, f.Processing())
}

func TestPlaceOrder_AttemptTimeout(t *testing.T) {
	sub := &mockSubmitter{release: make(chan struct{})}
	store := newStoreWithItem(t)
	f := NewFlow(store, sub, WithRetryPolicy(RetryPolicy{MaxAttempts: 2, AttemptTimeout: 10 * time.Millisecond}))
	walkToReview(t, f)

	_, err := f.PlaceOrder(context.Background())

	var se *SubmissionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, SubmissionTimeout, se.Kind)
	assert.Len(t, store.Snapshot().Items, 1)
}

func TestPlaceOrder_UniqueIDsAcrossOrders(t *testing.T) {
	ids := NewOrderIDs(nil)
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		store := newStoreWithItem(t)
		f := NewFlow(store, &mockSubmitter{}, WithOrderIDs(ids))
		walkToReview(t, f)

		order, err := f.PlaceOrder(context.Background())
		require.NoError(t, err)
		assert.False(t, seen[order.ID])
		seen[order.ID] = true
	}
}
