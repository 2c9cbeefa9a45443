// Package orders submits placed orders: it takes the payment and publishes
// the order to the order-management system.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/fitstore/internal/checkout"
	"github.com/fjod/go_cart/fitstore/internal/domain"
	"github.com/fjod/go_cart/fitstore/internal/payment"
	"github.com/fjod/go_cart/fitstore/pkg/logger"
	"go.uber.org/zap"
)

const refundTimeout = 5 * time.Second

type Submitter struct {
	payments  payment.Processor
	publisher Publisher
	log       *zap.Logger
}

func NewSubmitter(payments payment.Processor, publisher Publisher, log *zap.Logger) *Submitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Submitter{payments: payments, publisher: publisher, log: log}
}

// Submit authorizes the payment and publishes the order. If publishing fails
// the authorization is refunded so a retry starts clean. Cash on delivery
// orders skip the gateway.
func (s *Submitter) Submit(ctx context.Context, order *domain.Order) (checkout.Receipt, error) {
	log := logger.Enrich(ctx, s.log).With(zap.String("order_id", order.ID))

	var auth payment.Authorization
	if order.PaymentMethod.IsCashOnDelivery() {
		auth.TransactionID = "COD-" + order.ID
	} else {
		var err error
		auth, err = s.payments.Authorize(ctx, order.ID, order.Totals.Total, order.PaymentMethod)
		if err != nil {
			return checkout.Receipt{}, classify(err)
		}
	}

	event := *order
	event.TransactionID = auth.TransactionID
	if err := s.publisher.Publish(ctx, &event); err != nil {
		s.refund(ctx, log, order, auth)
		if errors.Is(err, context.DeadlineExceeded) {
			return checkout.Receipt{}, checkout.NewTimeoutError(fmt.Errorf("publish order %s: %w", order.ID, err))
		}
		return checkout.Receipt{}, checkout.NewNetworkError(fmt.Errorf("publish order %s: %w", order.ID, err))
	}

	log.Info("order submitted", zap.String("transaction_id", auth.TransactionID))
	return checkout.Receipt{TransactionID: auth.TransactionID}, nil
}

func (s *Submitter) refund(ctx context.Context, log *zap.Logger, order *domain.Order, auth payment.Authorization) {
	if order.PaymentMethod.IsCashOnDelivery() {
		return
	}
	refundCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refundTimeout)
	defer cancel()
	if err := s.payments.Refund(refundCtx, auth.TransactionID); err != nil {
		log.Error("failed to refund authorization",
			zap.String("transaction_id", auth.TransactionID),
			zap.Error(err))
	}
}

func classify(err error) error {
	switch {
	case errors.Is(err, payment.ErrDeclined):
		return checkout.NewRejectedError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return checkout.NewTimeoutError(err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return checkout.NewNetworkError(err)
	}
}
