package domain

type PaymentType string

const (
	PaymentCard       PaymentType = "card"
	PaymentUPI        PaymentType = "upi"
	PaymentNetBanking PaymentType = "netbanking"
	PaymentWallet     PaymentType = "wallet"
	PaymentCOD        PaymentType = "cod"
)

type PaymentMethod struct {
	ID          string      `json:"id"`
	Type        PaymentType `json:"type"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
}

// IsCashOnDelivery reports whether the COD surcharge applies.
func (m *PaymentMethod) IsCashOnDelivery() bool {
	return m != nil && m.Type == PaymentCOD
}
