package checkout

import (
	"github.com/fjod/go_cart/fitstore/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	FreeShippingThreshold int64 = 2000
	ShippingFee           int64 = 199
	CODSurcharge          int64 = 50
)

var taxRate = decimal.RequireFromString("0.18")

// ComputeTotals derives shipping, tax, COD surcharge and grand total from a
// cart subtotal and the selected payment method (nil when none selected).
func ComputeTotals(subtotal int64, method *domain.PaymentMethod) domain.Totals {
	t := domain.Totals{
		Subtotal: subtotal,
		Shipping: Shipping(subtotal),
		Tax:      Tax(subtotal),
	}
	if method.IsCashOnDelivery() {
		t.CODSurcharge = CODSurcharge
	}
	t.Total = t.Subtotal + t.Shipping + t.Tax + t.CODSurcharge
	return t
}

// Shipping is free strictly above the threshold.
func Shipping(subtotal int64) int64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return ShippingFee
}

// Tax is 18% of subtotal rounded half away from zero (25 -> 4.5 -> 5).
func Tax(subtotal int64) int64 {
	return decimal.NewFromInt(subtotal).Mul(taxRate).Round(0).IntPart()
}
