package cart

import (
	"encoding/json"
	"testing"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(t catalog.ProductType, id int64, name, price string) catalog.Product {
	return catalog.Product{Type: t, ID: id, Name: name, Price: decimal.RequireFromString(price), Category: "Gaming", ImageRef: "img/" + name}
}

func TestCart_AddTwiceSameKey(t *testing.T) {
	var c Cart
	c.Add(product(catalog.TypePC, 1, "PC Gamer", "15000.00"))
	li := c.Add(product(catalog.TypePC, 1, "PC Gamer", "15000.00"))

	assert.Equal(t, "pc-1", li.Key)
	assert.Equal(t, 2, li.Quantity)
	assert.Equal(t, 1, c.Len())
}

func TestCart_AddKeepsFirstSnapshot(t *testing.T) {
	var c Cart
	c.Add(product(catalog.TypeMouse, 3, "Mouse", "500.00"))
	c.Add(product(catalog.TypeMouse, 3, "Mouse v2", "650.00"))
	li := c.Add(product(catalog.TypeMouse, 3, "Mouse v3", "700.00"))

	assert.Equal(t, 3, li.Quantity)
	assert.Equal(t, "Mouse", li.Name)
	assert.Equal(t, "500.00", li.UnitPrice.StringFixed(2))
}

func TestCart_InsertionOrder(t *testing.T) {
	var c Cart
	c.Add(product(catalog.TypeMouse, 3, "Mouse", "500.00"))
	c.Add(product(catalog.TypePC, 1, "PC", "15000.00"))
	c.Add(product(catalog.TypeMouse, 3, "Mouse", "500.00"))

	assert.Equal(t, []string{"mouse-3", "pc-1"}, c.Keys())
}

func TestCart_SetQuantity(t *testing.T) {
	for _, qty := range []int{0, -4} {
		var c Cart
		c.Add(product(catalog.TypePC, 1, "PC", "15000.00"))
		c.SetQuantity("pc-1", qty)
		assert.True(t, c.IsEmpty(), "qty %d removes the line", qty)
	}

	var c Cart
	c.Add(product(catalog.TypePC, 1, "PC", "15000.00"))
	c.SetQuantity("pc-1", 7)
	li, ok := c.Get("pc-1")
	require.True(t, ok)
	assert.Equal(t, 7, li.Quantity)

	before := c.Items()
	c.SetQuantity("keyboard-9", 3)
	assert.Equal(t, before, c.Items())
}

func TestCart_RemoveAndClear(t *testing.T) {
	var c Cart
	c.Add(product(catalog.TypePC, 1, "PC", "15000.00"))
	c.Add(product(catalog.TypeMouse, 3, "Mouse", "500.00"))

	c.Remove("pc-1")
	c.Remove("pc-1")
	assert.Equal(t, []string{"mouse-3"}, c.Keys())

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Token())
}

func TestCart_TokenLifecycle(t *testing.T) {
	var c Cart
	assert.Empty(t, c.Token())

	c.Add(product(catalog.TypePC, 1, "PC", "15000.00"))
	first := c.Token()
	require.NotEmpty(t, first)

	c.Add(product(catalog.TypeMouse, 3, "Mouse", "500.00"))
	assert.Equal(t, first, c.Token())

	c.Clear()
	c.Add(product(catalog.TypePC, 1, "PC", "15000.00"))
	assert.NotEqual(t, first, c.Token())
}

func TestCart_JSONRoundTripKeepsOrderAndToken(t *testing.T) {
	var c Cart
	c.Add(product(catalog.TypeMouse, 3, "Mouse", "500.00"))
	c.Add(product(catalog.TypePC, 1, "PC", "15000.00"))

	b, err := json.Marshal(&c)
	require.NoError(t, err)

	var back Cart
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, c.Keys(), back.Keys())
	assert.Equal(t, c.Token(), back.Token())
	li, _ := back.Get("pc-1")
	assert.Equal(t, "15000.00", li.UnitPrice.StringFixed(2))
}

func TestCart_CloneIsIndependent(t *testing.T) {
	var c Cart
	c.Add(product(catalog.TypePC, 1, "PC", "15000.00"))
	snap := c.Clone()

	c.SetQuantity("pc-1", 5)
	li, _ := snap.Get("pc-1")
	assert.Equal(t, 1, li.Quantity)
}
