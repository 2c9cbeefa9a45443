package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/fitstore/internal/domain"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type BreakerSettings struct {
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{ConsecutiveFailures: 5, OpenTimeout: 30 * time.Second}
}

// BreakerGateway guards authorizations with a circuit breaker. Declines are
// answers from a healthy gateway and do not count as failures.
type BreakerGateway struct {
	next Processor
	cb   *gobreaker.CircuitBreaker[Authorization]
}

func NewBreakerGateway(next Processor, s BreakerSettings, log *zap.Logger) *BreakerGateway {
	if log == nil {
		log = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker[Authorization](gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrDeclined)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &BreakerGateway{next: next, cb: cb}
}

func (b *BreakerGateway) Authorize(ctx context.Context, orderID string, amount int64, method domain.PaymentMethod) (Authorization, error) {
	auth, err := b.cb.Execute(func() (Authorization, error) {
		return b.next.Authorize(ctx, orderID, amount, method)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Authorization{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return auth, err
}

func (b *BreakerGateway) Refund(ctx context.Context, transactionID string) error {
	return b.next.Refund(ctx, transactionID)
}

func (b *BreakerGateway) State() gobreaker.State {
	return b.cb.State()
}
