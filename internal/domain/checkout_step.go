package domain

type CheckoutStep int

const (
	StepAddress CheckoutStep = iota + 1
	StepPayment
	StepReview
)

func (s CheckoutStep) Valid() bool {
	return s >= StepAddress && s <= StepReview
}

// String representation (for logging)
func (s CheckoutStep) String() string {
	switch s {
	case StepAddress:
		return "ADDRESS"
	case StepPayment:
		return "PAYMENT"
	case StepReview:
		return "REVIEW"
	default:
		return "UNKNOWN"
	}
}

// Totals are the derived order amounts shown during checkout.
type Totals struct {
	Subtotal     int64 `json:"subtotal"`
	Shipping     int64 `json:"shipping"`
	Tax          int64 `json:"tax"`
	CODSurcharge int64 `json:"cod_surcharge"`
	Total        int64 `json:"total"`
}
