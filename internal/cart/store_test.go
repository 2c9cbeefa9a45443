package cart

import (
	"math/rand"
	"testing"

	"github.com/fjod/go_cart/fitstore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	yogaMat   = domain.Product{ID: "1", Name: "Premium Yoga Mat", Price: 1299, Tags: []string{"yoga"}}
	dumbbells = domain.Product{ID: "2", Name: "Adjustable Dumbbells Set", Price: 8999}
	bands     = domain.Product{ID: "3", Name: "Resistance Bands Set", Price: 799}
)

// assertInvariants checks the derived values and uniqueness rules against
// the raw line items.
func assertInvariants(t *testing.T, snap domain.CartSnapshot) {
	t.Helper()

	var count int
	var subtotal int64
	seen := make(map[string]bool)
	for _, item := range snap.Items {
		assert.GreaterOrEqual(t, item.Quantity, 1, "line item %s has quantity < 1", item.Product.ID)
		assert.False(t, seen[item.Product.ID], "duplicate line item %s", item.Product.ID)
		seen[item.Product.ID] = true
		count += item.Quantity
		subtotal += item.Product.Price * int64(item.Quantity)
	}
	assert.Equal(t, count, snap.ItemCount)
	assert.Equal(t, subtotal, snap.Subtotal)
}

func TestStore_AddItem_NewAndExisting(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.AddItem(yogaMat, 1))
	require.NoError(t, s.AddItem(bands, 2))
	require.NoError(t, s.AddItem(yogaMat, 3))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "1", snap.Items[0].Product.ID)
	assert.Equal(t, 4, snap.Items[0].Quantity)
	assert.Equal(t, "3", snap.Items[1].Product.ID)
	assert.Equal(t, 6, snap.ItemCount)
	assert.Equal(t, int64(1299*4+799*2), snap.Subtotal)
	assertInvariants(t, snap)
}

func TestStore_AddItem_TwiceEqualsCombined(t *testing.T) {
	a := NewStore()
	require.NoError(t, a.AddItem(dumbbells, 2))
	require.NoError(t, a.AddItem(dumbbells, 3))

	b := NewStore()
	require.NoError(t, b.AddItem(dumbbells, 5))

	sa, sb := a.Snapshot(), b.Snapshot()
	require.Len(t, sa.Items, 1)
	assert.Equal(t, sb.Items[0].Quantity, sa.Items[0].Quantity)
	assert.Equal(t, sb.ItemCount, sa.ItemCount)
	assert.Equal(t, sb.Subtotal, sa.Subtotal)
}

func TestStore_AddItem_InvalidQuantity(t *testing.T) {
	s := NewStore()

	assert.ErrorIs(t, s.AddItem(yogaMat, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, s.AddItem(yogaMat, -2), ErrInvalidQuantity)
	assert.Empty(t, s.Snapshot().Items)
}

func TestStore_AddItem_CapsLineQuantity(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddItem(yogaMat, 60))

	err := s.AddItem(yogaMat, 40)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 60, s.Snapshot().Items[0].Quantity)

	require.NoError(t, s.AddItem(yogaMat, 39))
	assert.Equal(t, MaxQuantity, s.Snapshot().Items[0].Quantity)

	assert.ErrorIs(t, s.AddItem(dumbbells, MaxQuantity+1), ErrInvalidQuantity)
	assert.Len(t, s.Snapshot().Items, 1)
}

func TestStore_SetQuantity_AboveMaxRejected(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddItem(yogaMat, 2))

	assert.ErrorIs(t, s.SetQuantity("1", MaxQuantity+1), ErrInvalidQuantity)
	assert.Equal(t, 2, s.Snapshot().Items[0].Quantity)
}

func TestStore_SetQuantity(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddItem(yogaMat, 1))

	require.NoError(t, s.SetQuantity("1", 7))
	snap := s.Snapshot()
	assert.Equal(t, 7, snap.Items[0].Quantity)
	assert.Equal(t, int64(1299*7), snap.Subtotal)
}

func TestStore_SetQuantity_ZeroRemoves(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddItem(yogaMat, 2))
	require.NoError(t, s.AddItem(bands, 1))

	require.NoError(t, s.SetQuantity("1", 0))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "3", snap.Items[0].Product.ID)
	assertInvariants(t, snap)

	// removing again is a no-op
	s.RemoveItem("1")
	assert.Len(t, s.Snapshot().Items, 1)
}

func TestStore_SetQuantity_NegativeRejected(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddItem(yogaMat, 2))

	err := s.SetQuantity("1", -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 2, s.Snapshot().Items[0].Quantity)
}

func TestStore_SetQuantity_AbsentIsNoop(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.SetQuantity("42", 3))
	require.NoError(t, s.SetQuantity("42", 0))
	assert.Empty(t, s.Snapshot().Items)
}

func TestStore_RemoveItem_KeepsOrder(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddItem(yogaMat, 1))
	require.NoError(t, s.AddItem(dumbbells, 1))
	require.NoError(t, s.AddItem(bands, 1))

	s.RemoveItem("2")
	require.NoError(t, s.AddItem(bands, 1))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "1", snap.Items[0].Product.ID)
	assert.Equal(t, "3", snap.Items[1].Product.ID)
	assert.Equal(t, 2, snap.Items[1].Quantity)
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddItem(yogaMat, 1))
	require.NoError(t, s.AddItem(dumbbells, 2))

	s.Clear()

	snap := s.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Equal(t, 0, snap.ItemCount)
	assert.Equal(t, int64(0), snap.Subtotal)
	assert.True(t, snap.IsEmpty())
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddItem(yogaMat, 1))

	snap := s.Snapshot()
	snap.Items[0].Quantity = 50
	snap.Items[0].Product.Tags[0] = "changed"

	fresh := s.Snapshot()
	assert.Equal(t, 1, fresh.Items[0].Quantity)
	assert.Equal(t, "yoga", fresh.Items[0].Product.Tags[0])
}

func TestStore_InvariantsHoldAfterEveryMutation(t *testing.T) {
	products := []domain.Product{yogaMat, dumbbells, bands}
	rng := rand.New(rand.NewSource(7))
	s := NewStore()

	for i := 0; i < 500; i++ {
		p := products[rng.Intn(len(products))]
		switch rng.Intn(4) {
		case 0, 1:
			if err := s.AddItem(p, rng.Intn(5)+1); err != nil {
				require.ErrorIs(t, err, ErrInvalidQuantity)
			}
		case 2:
			require.NoError(t, s.SetQuantity(p.ID, rng.Intn(4)))
		case 3:
			s.RemoveItem(p.ID)
		}
		assertInvariants(t, s.Snapshot())
	}
}
