package checkout

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/fitstore/internal/domain"
	"github.com/fjod/go_cart/fitstore/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Submission is an order claimed by Prepare and not yet submitted.
type Submission struct {
	order *domain.Order
	token string
}

// Order returns the captured order snapshot.
func (s *Submission) Order() *domain.Order {
	return s.order
}

// PlaceOrder submits the order under review. The order snapshot is taken
// before anything else happens; the cart is cleared and the flow reset only
// after the submitter acknowledged it. On any error the cart and the
// selections are left as they were.
func (f *Flow) PlaceOrder(ctx context.Context) (*domain.Order, error) {
	sub, err := f.Prepare()
	if err != nil {
		return nil, err
	}
	return f.Submit(ctx, sub)
}

// Prepare checks the preconditions, claims the in-flight token and captures
// the order snapshot. Callers that guard cart mutations with their own lock
// hold it across Prepare only, then call Submit.
func (f *Flow) Prepare() (*Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.inFlight != "" {
		return nil, ErrOrderInProgress
	}

	snap := f.cart.Snapshot()
	switch {
	case snap.IsEmpty():
		return nil, &PreconditionError{Step: domain.StepAddress, Err: ErrEmptyCart}
	case f.address == nil:
		return nil, &PreconditionError{Step: domain.StepAddress, Err: ErrAddressRequired}
	case f.payment == nil:
		return nil, &PreconditionError{Step: domain.StepPayment, Err: ErrPaymentRequired}
	case f.step != domain.StepReview:
		return nil, &PreconditionError{Step: f.step, Err: ErrNotAtReview}
	}

	f.inFlight = uuid.NewString()
	order := &domain.Order{
		ID:            f.ids.Next(),
		Items:         snap.Items,
		Address:       *f.address,
		PaymentMethod: *f.payment,
		Totals:        ComputeTotals(snap.Subtotal, f.payment),
		PlacedAt:      f.now(),
	}
	return &Submission{order: order, token: f.inFlight}, nil
}

// Submit sends a prepared order, retrying per the flow's RetryPolicy.
func (f *Flow) Submit(ctx context.Context, sub *Submission) (*domain.Order, error) {
	f.mu.Lock()
	claimed := sub != nil && sub.token != "" && sub.token == f.inFlight
	f.mu.Unlock()
	if !claimed {
		return nil, ErrNotPrepared
	}
	order := sub.order

	log := logger.Enrich(ctx, f.log).With(zap.String("order_id", order.ID), zap.String("submission_token", sub.token))
	log.Info("submitting order", zap.Int64("total", order.Totals.Total))

	receipt, err := f.submit(ctx, order, log)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = ""

	if err != nil {
		log.Warn("order submission failed", zap.Error(err))
		return nil, err
	}

	order.TransactionID = receipt.TransactionID
	f.cart.Clear()
	f.reset()

	log.Info("order placed", zap.String("transaction_id", receipt.TransactionID))
	return order, nil
}

func (f *Flow) submit(ctx context.Context, order *domain.Order, log *zap.Logger) (Receipt, error) {
	var last *SubmissionError
	attempts := f.retry.attempts()

	for attempt := 1; attempt <= attempts; attempt++ {
		attemptCtx, cancel := f.retry.attemptContext(ctx)
		receipt, err := f.submitter.Submit(attemptCtx, order)
		cancel()
		if err == nil {
			return receipt, nil
		}

		if ctx.Err() != nil {
			return Receipt{}, &SubmissionError{Kind: SubmissionAborted, Err: ctx.Err()}
		}
		last = classify(err)
		if !last.Retryable || attempt == attempts {
			break
		}

		log.Warn("order submission attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.String("kind", string(last.Kind)),
			zap.Error(err))

		if err := sleep(ctx, f.retry.delay(attempt)); err != nil {
			return Receipt{}, &SubmissionError{Kind: SubmissionAborted, Err: err}
		}
	}
	return Receipt{}, last
}

func classify(err error) *SubmissionError {
	var se *SubmissionError
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(err)
	}
	return NewNetworkError(err)
}
