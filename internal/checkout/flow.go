// Package checkout drives a session through address selection, payment
// selection and review, and places the order.
package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/go_cart/fitstore/internal/domain"
	"go.uber.org/zap"
)

// Cart is the part of the cart store the flow reads and clears.
type Cart interface {
	Snapshot() domain.CartSnapshot
	Clear()
}

// Receipt acknowledges a submitted order.
type Receipt struct {
	TransactionID string
}

// Submitter hands a placed order to the remote side (payment + order
// management). It may fail; see SubmissionError.
type Submitter interface {
	Submit(ctx context.Context, order *domain.Order) (Receipt, error)
}

type StepStatus struct {
	Step      domain.CheckoutStep `json:"step"`
	Name      string              `json:"name"`
	Completed bool                `json:"completed"`
}

// State is what presentational consumers render.
type State struct {
	Step            domain.CheckoutStep   `json:"step"`
	Steps           []StepStatus          `json:"steps"`
	Address         *domain.Address       `json:"address"`
	PaymentMethod   *domain.PaymentMethod `json:"payment_method"`
	Totals          domain.Totals         `json:"totals"`
	Processing      bool                  `json:"processing"`
	SubmissionToken string                `json:"submission_token,omitempty"`
}

type Flow struct {
	mu        sync.Mutex
	cart      Cart
	submitter Submitter
	retry     RetryPolicy
	ids       *OrderIDs
	log       *zap.Logger
	now       func() time.Time

	step     domain.CheckoutStep
	address  *domain.Address
	payment  *domain.PaymentMethod
	inFlight string
}

type Option func(*Flow)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(f *Flow) { f.retry = p }
}

// WithOrderIDs shares one ID generator between flows.
func WithOrderIDs(ids *OrderIDs) Option {
	return func(f *Flow) { f.ids = ids }
}

func WithLogger(l *zap.Logger) Option {
	return func(f *Flow) { f.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

func NewFlow(cart Cart, submitter Submitter, opts ...Option) *Flow {
	f := &Flow{
		cart:      cart,
		submitter: submitter,
		retry:     DefaultRetryPolicy(),
		log:       zap.NewNop(),
		now:       time.Now,
		step:      domain.StepAddress,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.ids == nil {
		f.ids = NewOrderIDs(f.now)
	}
	return f
}

// Begin starts checkout at the address step. An empty cart resets the flow
// and returns ErrEmptyCart.
func (f *Flow) Begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.inFlight != "" {
		return ErrOrderInProgress
	}
	if f.cart.Snapshot().IsEmpty() {
		f.reset()
		return ErrEmptyCart
	}
	f.step = domain.StepAddress
	return nil
}

// Reset drops all selections and returns to the address step. It fails
// while an order is in flight.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight != "" {
		return ErrOrderInProgress
	}
	f.reset()
	return nil
}

func (f *Flow) SelectAddress(a domain.Address) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.address = &a
}

// ClearAddress drops the address selection and returns to the address step.
// Used when the selected address is deleted; there is no fallback to another
// address. The payment selection is kept.
func (f *Flow) ClearAddress() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.address = nil
	f.step = domain.StepAddress
}

// SelectedAddressID returns the ID of the selected address, "" if none.
func (f *Flow) SelectedAddressID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.address == nil {
		return ""
	}
	return f.address.ID
}

func (f *Flow) SelectPayment(m domain.PaymentMethod) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payment = &m
}

// CanAdvance is the step gating predicate.
func (f *Flow) CanAdvance(step domain.CheckoutStep) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canAdvance(step)
}

func (f *Flow) canAdvance(step domain.CheckoutStep) bool {
	switch step {
	case domain.StepAddress:
		return f.address != nil
	case domain.StepPayment:
		return f.payment != nil
	case domain.StepReview:
		return true
	default:
		return false
	}
}

// Next moves one step forward when the current step is complete.
func (f *Flow) Next() (domain.CheckoutStep, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case f.step == domain.StepReview:
		return f.step, ErrNoNextStep
	case !f.canAdvance(f.step):
		return f.step, &PreconditionError{Step: f.step, Err: requirementOf(f.step)}
	}
	f.step++
	return f.step, nil
}

// Back moves one step backwards, keeping all selections.
func (f *Flow) Back() domain.CheckoutStep {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step > domain.StepAddress && f.inFlight == "" {
		f.step--
	}
	return f.step
}

// Totals recomputes the order amounts from the live cart subtotal.
func (f *Flow) Totals() domain.Totals {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ComputeTotals(f.cart.Snapshot().Subtotal, f.payment)
}

// Processing reports whether an order submission is in flight.
func (f *Flow) Processing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight != ""
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := State{
		Step: f.step,
		Steps: []StepStatus{
			{Step: domain.StepAddress, Name: "Address", Completed: f.address != nil},
			{Step: domain.StepPayment, Name: "Payment", Completed: f.payment != nil},
			{Step: domain.StepReview, Name: "Review", Completed: false},
		},
		Totals:          ComputeTotals(f.cart.Snapshot().Subtotal, f.payment),
		Processing:      f.inFlight != "",
		SubmissionToken: f.inFlight,
	}
	if f.address != nil {
		a := *f.address
		st.Address = &a
	}
	if f.payment != nil {
		m := *f.payment
		st.PaymentMethod = &m
	}
	return st
}

// reset returns to the initial state. Caller holds mu.
func (f *Flow) reset() {
	f.step = domain.StepAddress
	f.address = nil
	f.payment = nil
}

func requirementOf(step domain.CheckoutStep) error {
	if step == domain.StepAddress {
		return ErrAddressRequired
	}
	return ErrPaymentRequired
}
