// Package payment lists the accepted payment methods and simulates the
// remote payment acknowledgment.
package payment

import (
	"errors"

	"github.com/fjod/go_cart/fitstore/internal/domain"
)

var ErrUnknownMethod = errors.New("unknown payment method")

var methods = []domain.PaymentMethod{
	{ID: "card", Type: domain.PaymentCard, Name: "Credit/Debit Card", Description: "Visa, Mastercard, RuPay accepted"},
	{ID: "upi", Type: domain.PaymentUPI, Name: "UPI", Description: "Pay using Google Pay, PhonePe, Paytm"},
	{ID: "netbanking", Type: domain.PaymentNetBanking, Name: "Net Banking", Description: "All major banks supported"},
	{ID: "wallet", Type: domain.PaymentWallet, Name: "Digital Wallet", Description: "Paytm, Amazon Pay, MobiKwik"},
	{ID: "cod", Type: domain.PaymentCOD, Name: "Cash on Delivery", Description: "Pay when you receive your order"},
}

// Methods returns the accepted payment methods in display order.
func Methods() []domain.PaymentMethod {
	out := make([]domain.PaymentMethod, len(methods))
	copy(out, methods)
	return out
}

func Lookup(id string) (domain.PaymentMethod, error) {
	for _, m := range methods {
		if m.ID == id {
			return m, nil
		}
	}
	return domain.PaymentMethod{}, ErrUnknownMethod
}
