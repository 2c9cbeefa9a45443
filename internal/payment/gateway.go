package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fjod/go_cart/fitstore/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrDeclined    = errors.New("payment declined")
	ErrUnavailable = errors.New("payment gateway unavailable")
)

type Status int

const (
	StatusApproved Status = iota
	StatusDeclined
	StatusUnavailable
)

// StatusSource decides how the simulated gateway answers a charge.
type StatusSource interface {
	GetStatus() (Status, string)
}

type AlwaysApprove struct{}

func (AlwaysApprove) GetStatus() (Status, string) {
	return StatusApproved, ""
}

// RandomStatus approves 95 of 101 charges and declines the rest with a
// bank-style reason.
type RandomStatus struct{}

func (RandomStatus) GetStatus() (Status, string) {
	return calcStatus(rand.Intn(101))
}

var declineReasons = []string{
	"insufficient funds",
	"card expired",
	"suspected fraud",
	"limit exceeded",
	"issuer not reachable",
}

func calcStatus(n int) (Status, string) {
	if n < 95 {
		return StatusApproved, ""
	}
	reason := n - 95
	if reason == 0 || reason > len(declineReasons) {
		return StatusDeclined, "unknown reason"
	}
	return StatusDeclined, declineReasons[reason-1]
}

type Authorization struct {
	TransactionID string             `json:"transaction_id"`
	OrderID       string             `json:"order_id"`
	Amount        int64              `json:"amount"`
	Method        domain.PaymentType `json:"method"`
	AuthorizedAt  time.Time          `json:"authorized_at"`
}

// Processor authorizes and refunds order payments.
type Processor interface {
	Authorize(ctx context.Context, orderID string, amount int64, method domain.PaymentMethod) (Authorization, error)
	Refund(ctx context.Context, transactionID string) error
}

// Gateway simulates the remote acknowledgment with a fixed latency.
type Gateway struct {
	latency time.Duration
	status  StatusSource
	now     func() time.Time
}

func NewGateway(latency time.Duration, status StatusSource) *Gateway {
	if status == nil {
		status = AlwaysApprove{}
	}
	return &Gateway{latency: latency, status: status, now: time.Now}
}

func (g *Gateway) Authorize(ctx context.Context, orderID string, amount int64, method domain.PaymentMethod) (Authorization, error) {
	if err := g.wait(ctx); err != nil {
		return Authorization{}, err
	}

	status, reason := g.status.GetStatus()
	switch status {
	case StatusApproved:
		return Authorization{
			TransactionID: "TXN-" + uuid.NewString(),
			OrderID:       orderID,
			Amount:        amount,
			Method:        method.Type,
			AuthorizedAt:  g.now(),
		}, nil
	case StatusDeclined:
		return Authorization{}, fmt.Errorf("%w: %s", ErrDeclined, reason)
	default:
		return Authorization{}, ErrUnavailable
	}
}

// Refund is always a success for the simulated gateway.
func (g *Gateway) Refund(ctx context.Context, _ string) error {
	return ctx.Err()
}

func (g *Gateway) wait(ctx context.Context) error {
	if g.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(g.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
