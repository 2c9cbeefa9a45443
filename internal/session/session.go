package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fjod/go_cart/fitstore/internal/address"
	"github.com/fjod/go_cart/fitstore/internal/cart"
	"github.com/fjod/go_cart/fitstore/internal/checkout"
	"github.com/fjod/go_cart/fitstore/internal/domain"
)

var ErrCheckoutInProgress = errors.New("cart is locked while an order is being placed")

// Session is one shopper's cart, checkout flow and address book. Cart and
// address changes go through Session so the checkout selection stays in
// step with them.
type Session struct {
	ID        string
	Cart      *cart.Store
	Checkout  *checkout.Flow
	Addresses *address.Book

	// ops serializes cart and address changes with order preparation, so
	// the in-flight check and the change it guards happen together.
	ops sync.Mutex

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) AddItem(product domain.Product, quantity int) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	if s.Checkout.Processing() {
		return ErrCheckoutInProgress
	}
	return s.Cart.AddItem(product, quantity)
}

func (s *Session) SetQuantity(productID string, quantity int) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	if s.Checkout.Processing() {
		return ErrCheckoutInProgress
	}
	return s.Cart.SetQuantity(productID, quantity)
}

func (s *Session) RemoveItem(productID string) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	if s.Checkout.Processing() {
		return ErrCheckoutInProgress
	}
	s.Cart.RemoveItem(productID)
	return nil
}

func (s *Session) ClearCart() error {
	s.ops.Lock()
	defer s.ops.Unlock()

	if s.Checkout.Processing() {
		return ErrCheckoutInProgress
	}
	s.Cart.Clear()
	return nil
}

// SelectAddress selects a stored address for checkout.
func (s *Session) SelectAddress(id string) (domain.Address, error) {
	s.ops.Lock()
	defer s.ops.Unlock()

	a, err := s.Addresses.Get(id)
	if err != nil {
		return domain.Address{}, err
	}
	s.Checkout.SelectAddress(a)
	return a, nil
}

// AddAddress stores a new address and selects it.
func (s *Session) AddAddress(a domain.Address) (domain.Address, error) {
	s.ops.Lock()
	defer s.ops.Unlock()

	added, err := s.Addresses.Add(a)
	if err != nil {
		return domain.Address{}, err
	}
	s.Checkout.SelectAddress(added)
	return added, nil
}

// EditAddress updates an address and selects the edited version.
func (s *Session) EditAddress(a domain.Address) (domain.Address, error) {
	s.ops.Lock()
	defer s.ops.Unlock()

	edited, err := s.Addresses.Edit(a)
	if err != nil {
		return domain.Address{}, err
	}
	s.Checkout.SelectAddress(edited)
	return edited, nil
}

// DeleteAddress removes an address. Deleting the selected address clears
// the selection and sends checkout back to the address step; no other
// address is picked in its place.
func (s *Session) DeleteAddress(id string) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	if err := s.Addresses.Delete(id); err != nil {
		return err
	}
	if s.Checkout.SelectedAddressID() == id {
		s.Checkout.ClearAddress()
	}
	return nil
}

// CancelCheckout drops the checkout selections. The cart is kept.
func (s *Session) CancelCheckout() error {
	s.ops.Lock()
	defer s.ops.Unlock()
	return s.Checkout.Reset()
}

// PlaceOrder captures the order while holding ops, then submits it without
// holding ops. Cart changes that arrive during submission see the in-flight
// order and are rejected.
func (s *Session) PlaceOrder(ctx context.Context) (*domain.Order, error) {
	s.ops.Lock()
	pending, err := s.Checkout.Prepare()
	s.ops.Unlock()
	if err != nil {
		return nil, err
	}
	return s.Checkout.Submit(ctx, pending)
}
