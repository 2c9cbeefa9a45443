package checkout

import (
	"errors"
	"fmt"

	"github.com/fjod/go_cart/fitstore/internal/domain"
)

var (
	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
	ErrAddressRequired = errors.New("select an address before continuing")
	ErrPaymentRequired = errors.New("select a payment method before continuing")
	ErrNotAtReview     = errors.New("orders can only be placed from the review step")
	ErrNoNextStep      = errors.New("review is the last checkout step")
	ErrOrderInProgress = errors.New("order submission already in progress")
	ErrNotPrepared     = errors.New("no prepared order to submit")
)

// PreconditionError blocks a checkout action. Step is the step the user has
// to go back to in order to fix it.
type PreconditionError struct {
	Step domain.CheckoutStep
	Err  error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("checkout blocked at %s step: %v", e.Step, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

type SubmissionKind string

const (
	SubmissionNetwork  SubmissionKind = "network"
	SubmissionTimeout  SubmissionKind = "timeout"
	SubmissionRejected SubmissionKind = "rejected"
	SubmissionAborted  SubmissionKind = "aborted"
)

// SubmissionError reports a failed order submission. Retryable failures are
// retried by the flow's RetryPolicy; the cart is never cleared on failure.
type SubmissionError struct {
	Kind      SubmissionKind
	Retryable bool
	Err       error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order submission failed (%s): %v", e.Kind, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

func NewNetworkError(err error) *SubmissionError {
	return &SubmissionError{Kind: SubmissionNetwork, Retryable: true, Err: err}
}

func NewTimeoutError(err error) *SubmissionError {
	return &SubmissionError{Kind: SubmissionTimeout, Retryable: true, Err: err}
}

func NewRejectedError(err error) *SubmissionError {
	return &SubmissionError{Kind: SubmissionRejected, Retryable: false, Err: err}
}
