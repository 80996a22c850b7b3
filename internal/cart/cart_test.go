package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/loja-storefront/internal/catalog"
	"github.com/example/loja-storefront/internal/storage"
)

func product(id string, price string) catalog.Product {
	return catalog.Product{
		ID:    id,
		Name:  "Produto " + id,
		Price: decimal.RequireFromString(price),
		Image: "https://img/" + id + ".png",
	}
}

// ============================================
// Add Tests
// ============================================

func TestStore_Add_NewItem(t *testing.T) {
	s := NewStore()

	s.Add(product("p1", "100.00"), 2, "azul", "M")

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "azul", items[0].Color)
	assert.Equal(t, "M", items[0].Size)
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("100.00")))
}

func TestStore_Add_MergesSameVariant(t *testing.T) {
	s := NewStore()

	s.Add(product("p1", "50.00"), 1, "azul", "M")
	s.Add(product("p1", "50.00"), 2, "azul", "M")

	items := s.Items()
	require.Len(t, items, 1)
	// Numeric addition: 1 + 2 must be 3, never a concatenated "12".
	assert.Equal(t, 3, items[0].Quantity)
}

func TestStore_Add_DistinctVariantsAreSeparateLines(t *testing.T) {
	s := NewStore()

	s.Add(product("p1", "50.00"), 1, "azul", "M")
	s.Add(product("p1", "50.00"), 1, "azul", "G")
	s.Add(product("p1", "50.00"), 1, "preto", "M")

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 3, s.Count())
}

func TestStore_Add_ClampsQuantityToOne(t *testing.T) {
	s := NewStore()

	s.Add(product("p1", "10.00"), 0, "", "")
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)

	s.Add(product("p2", "10.00"), -5, "", "")
	items = s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestStore_Add_PreservesInsertionOrder(t *testing.T) {
	s := NewStore()

	s.Add(product("p3", "1.00"), 1, "", "")
	s.Add(product("p1", "1.00"), 1, "", "")
	s.Add(product("p2", "1.00"), 1, "", "")

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "p3", items[0].ProductID)
	assert.Equal(t, "p1", items[1].ProductID)
	assert.Equal(t, "p2", items[2].ProductID)
}

func TestStore_Count_SumsQuantities(t *testing.T) {
	s := NewStore()

	s.Add(product("p1", "10.00"), 2, "", "")
	s.Add(product("p2", "10.00"), 3, "", "")
	s.Add(product("p3", "10.00"), 1, "azul", "P")

	assert.Equal(t, 6, s.Count())
}

// ============================================
// Remove Tests
// ============================================

func TestStore_Remove(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "10.00"), 2, "azul", "M")
	s.Add(product("p2", "10.00"), 1, "", "")

	s.Remove("p1", "azul", "M")

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)
}

func TestStore_Remove_OnlyMatchingVariant(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "10.00"), 1, "azul", "M")
	s.Add(product("p1", "10.00"), 1, "azul", "G")

	s.Remove("p1", "azul", "M")

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "G", items[0].Size)
}

func TestStore_Remove_AbsentKeyIsNoop(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "10.00"), 1, "", "")

	s.Remove("p9", "", "")
	s.Remove("p1", "azul", "")

	assert.Equal(t, 1, s.Len())
}

func TestStore_RemoveThenAdd_FreshLine(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "10.00"), 5, "", "")

	s.Remove("p1", "", "")
	s.Add(product("p1", "10.00"), 2, "", "")

	items := s.Items()
	require.Len(t, items, 1)
	// The new line must carry exactly the newly added quantity.
	assert.Equal(t, 2, items[0].Quantity)
}

// ============================================
// UpdateQuantity Tests
// ============================================

func TestStore_UpdateQuantity(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "10.00"), 1, "azul", "M")

	s.UpdateQuantity("p1", "azul", "M", 7)

	assert.Equal(t, 7, s.Items()[0].Quantity)
}

func TestStore_UpdateQuantity_ClampsToOne(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "10.00"), 3, "", "")

	s.UpdateQuantity("p1", "", "", 0)
	assert.Equal(t, 1, s.Items()[0].Quantity)

	s.UpdateQuantity("p1", "", "", -4)
	assert.Equal(t, 1, s.Items()[0].Quantity)
}

func TestStore_UpdateQuantity_NoVariantItemStaysAddressable(t *testing.T) {
	s := NewStore()
	// Added without any variant selection.
	s.Add(product("p1", "10.00"), 1, "", "")

	s.UpdateQuantity("p1", "", "", 4)

	assert.Equal(t, 4, s.Items()[0].Quantity)
}

func TestStore_UpdateQuantity_AbsentKeyIsNoop(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "10.00"), 2, "", "")

	s.UpdateQuantity("p9", "", "", 5)

	assert.Equal(t, 2, s.Items()[0].Quantity)
}

// ============================================
// Clear Tests
// ============================================

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "10.00"), 2, "", "")
	s.Add(product("p2", "10.00"), 1, "", "")

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Items())
}

func TestStore_ItemsReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "10.00"), 2, "", "")

	items := s.Items()
	items[0].Quantity = 99

	assert.Equal(t, 2, s.Items()[0].Quantity)
}

// ============================================
// Persistence Tests
// ============================================

func TestPersistAndLoad(t *testing.T) {
	st := storage.NewMemoryStorage()

	s := NewStore()
	s.Add(product("p1", "49.90"), 2, "azul", "M")
	s.Add(product("p2", "15.00"), 1, "", "")
	require.NoError(t, s.Persist(st))

	restored, err := Load(st)
	require.NoError(t, err)

	items := restored.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("49.90")))
	assert.Equal(t, 3, restored.Count())
}

func TestLoad_EmptyStorage(t *testing.T) {
	restored, err := Load(storage.NewMemoryStorage())
	require.NoError(t, err)
	assert.Equal(t, 0, restored.Len())
}

func TestPersist_EmptyCartRemovesKey(t *testing.T) {
	st := storage.NewMemoryStorage()

	s := NewStore()
	s.Add(product("p1", "10.00"), 1, "", "")
	require.NoError(t, s.Persist(st))

	s.Clear()
	require.NoError(t, s.Persist(st))

	_, ok := st.Get(storage.KeyCart)
	assert.False(t, ok)
}

func TestLoad_CorruptState(t *testing.T) {
	st := storage.NewMemoryStorage()
	require.NoError(t, st.Set(storage.KeyCart, "{nope"))

	_, err := Load(st)
	assert.Error(t, err)
}
