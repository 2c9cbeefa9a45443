// Package address keeps a session's delivery addresses.
package address

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/fjod/go_cart/fitstore/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("address not found")
	ErrInvalidAddress = errors.New("invalid address")
)

var postalCode = regexp.MustCompile(`^[0-9]{6}$`)

// Book is an ordered set of addresses. At most one is the default.
type Book struct {
	mu        sync.RWMutex
	addresses []domain.Address
}

func NewBook(seed ...domain.Address) *Book {
	return &Book{addresses: append([]domain.Address(nil), seed...)}
}

// NewSeededBook returns a book holding the sample Home and Work addresses.
func NewSeededBook() *Book {
	return NewBook(SampleAddresses()...)
}

func SampleAddresses() []domain.Address {
	return []domain.Address{
		{
			ID:           "1",
			Type:         domain.AddressHome,
			Name:         "John Doe",
			Phone:        "+91 98765 43210",
			AddressLine1: "123, Green Park Society",
			AddressLine2: "Near City Mall",
			City:         "Mumbai",
			State:        "Maharashtra",
			PostalCode:   "400001",
			IsDefault:    true,
		},
		{
			ID:           "2",
			Type:         domain.AddressWork,
			Name:         "John Doe",
			Phone:        "+91 98765 43210",
			AddressLine1: "456, Tech Park, Building B",
			AddressLine2: "Andheri East",
			City:         "Mumbai",
			State:        "Maharashtra",
			PostalCode:   "400069",
		},
	}
}

func (b *Book) List() []domain.Address {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.Address, len(b.addresses))
	copy(out, b.addresses)
	return out
}

func (b *Book) Get(id string) (domain.Address, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i := b.indexOf(id)
	if i < 0 {
		return domain.Address{}, ErrNotFound
	}
	return b.addresses[i], nil
}

// Default returns the default address, or false if the book has none.
func (b *Book) Default() (domain.Address, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, a := range b.addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return domain.Address{}, false
}

// Add stores a new address under a fresh ID. The first address in an empty
// book becomes the default.
func (b *Book) Add(a domain.Address) (domain.Address, error) {
	if err := Validate(a); err != nil {
		return domain.Address{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	a.ID = uuid.NewString()
	if len(b.addresses) == 0 {
		a.IsDefault = true
	}
	if a.IsDefault {
		b.clearDefault()
	}
	b.addresses = append(b.addresses, a)
	return a, nil
}

// Edit replaces the address with the same ID.
func (b *Book) Edit(a domain.Address) (domain.Address, error) {
	if err := Validate(a); err != nil {
		return domain.Address{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(a.ID)
	if i < 0 {
		return domain.Address{}, ErrNotFound
	}
	if a.IsDefault {
		b.clearDefault()
	}
	b.addresses[i] = a
	return a, nil
}

func (b *Book) Delete(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	b.addresses = append(b.addresses[:i], b.addresses[i+1:]...)
	return nil
}

func (b *Book) indexOf(id string) int {
	for i, a := range b.addresses {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (b *Book) clearDefault() {
	for i := range b.addresses {
		b.addresses[i].IsDefault = false
	}
}

// Validate checks the fields the address form requires.
func Validate(a domain.Address) error {
	required := []struct{ field, value string }{
		{"name", a.Name},
		{"phone", a.Phone},
		{"address_line1", a.AddressLine1},
		{"city", a.City},
		{"state", a.State},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidAddress, strings.Join(missing, ", "))
	}
	if !postalCode.MatchString(a.PostalCode) {
		return fmt.Errorf("%w: postal code must be 6 digits", ErrInvalidAddress)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAddress, a.Type)
	}
	return nil
}
