package domain

type AddressType string

const (
	AddressHome  AddressType = "home"
	AddressWork  AddressType = "work"
	AddressOther AddressType = "other"
)

func (t AddressType) Valid() bool {
	return t == AddressHome || t == AddressWork || t == AddressOther
}

type Address struct {
	ID           string      `json:"id"`
	Type         AddressType `json:"type"`
	Name         string      `json:"name"`
	Phone        string      `json:"phone"`
	AddressLine1 string      `json:"address_line1"`
	AddressLine2 string      `json:"address_line2,omitempty"`
	City         string      `json:"city"`
	State        string      `json:"state"`
	PostalCode   string      `json:"postal_code"`
	IsDefault    bool        `json:"is_default"`
}
