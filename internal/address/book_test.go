package address

import (
	"testing"

	"github.com/fjod/go_cart/fitstore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() domain.Address {
	return domain.Address{
		Type:         domain.AddressOther,
		Name:         "Priya Sharma",
		Phone:        "+91 90000 11111",
		AddressLine1: "12 Lake Road",
		City:         "Pune",
		State:        "Maharashtra",
		PostalCode:   "411001",
	}
}

func TestSeededBook(t *testing.T) {
	b := NewSeededBook()

	list := b.List()
	require.Len(t, list, 2)
	assert.Equal(t, domain.AddressHome, list[0].Type)
	assert.Equal(t, domain.AddressWork, list[1].Type)

	def, ok := b.Default()
	require.True(t, ok)
	assert.Equal(t, "1", def.ID)
}

func TestBook_Add(t *testing.T) {
	b := NewSeededBook()

	added, err := b.Add(validAddress())
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.False(t, added.IsDefault)

	got, err := b.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)
	assert.Len(t, b.List(), 3)
}

func TestBook_AddDefaultDemotesOthers(t *testing.T) {
	b := NewSeededBook()

	a := validAddress()
	a.IsDefault = true
	added, err := b.Add(a)
	require.NoError(t, err)

	def, ok := b.Default()
	require.True(t, ok)
	assert.Equal(t, added.ID, def.ID)

	home, err := b.Get("1")
	require.NoError(t, err)
	assert.False(t, home.IsDefault)
}

func TestBook_FirstAddressBecomesDefault(t *testing.T) {
	b := NewBook()

	added, err := b.Add(validAddress())
	require.NoError(t, err)
	assert.True(t, added.IsDefault)
}

func TestBook_Edit(t *testing.T) {
	b := NewSeededBook()

	work, err := b.Get("2")
	require.NoError(t, err)
	work.AddressLine2 = "Floor 4"

	_, err = b.Edit(work)
	require.NoError(t, err)

	got, err := b.Get("2")
	require.NoError(t, err)
	assert.Equal(t, "Floor 4", got.AddressLine2)

	missing := validAddress()
	missing.ID = "nope"
	_, err = b.Edit(missing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBook_Delete(t *testing.T) {
	b := NewSeededBook()

	require.NoError(t, b.Delete("1"))
	_, err := b.Get("1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, b.List(), 1)

	assert.ErrorIs(t, b.Delete("1"), ErrNotFound)
}

func TestBook_ListIsACopy(t *testing.T) {
	b := NewSeededBook()

	list := b.List()
	list[0].Name = "changed"

	home, err := b.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", home.Name)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Address)
		wantErr string
	}{
		{name: "valid", mutate: func(*domain.Address) {}},
		{name: "missing name", mutate: func(a *domain.Address) { a.Name = " " }, wantErr: "missing name"},
		{name: "missing city and state", mutate: func(a *domain.Address) { a.City, a.State = "", "" }, wantErr: "missing city, state"},
		{name: "short postal code", mutate: func(a *domain.Address) { a.PostalCode = "4110" }, wantErr: "6 digits"},
		{name: "letters in postal code", mutate: func(a *domain.Address) { a.PostalCode = "41100A" }, wantErr: "6 digits"},
		{name: "unknown type", mutate: func(a *domain.Address) { a.Type = "office" }, wantErr: "unknown type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAddress()
			tt.mutate(&a)
			err := Validate(a)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidAddress)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
