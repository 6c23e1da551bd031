// Package cart holds the session-scoped shopping cart and the store that
// mutates it.
package cart

import (
	"encoding/json"
	"fmt"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one product in the cart. Name, price, category and image are
// captured when the product is first added and never refreshed.
type LineItem struct {
	Key         string              `json:"key"`
	ProductType catalog.ProductType `json:"product_type"`
	ProductID   int64               `json:"product_id"`
	Name        string              `json:"name"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	Category    string              `json:"category"`
	ImageRef    string              `json:"image_ref"`
	Quantity    int                 `json:"quantity"`
}

// LineTotal is UnitPrice × Quantity at full precision.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart keeps line items in insertion order. The zero value is an empty cart.
type Cart struct {
	token string
	items []LineItem
}

func Key(t catalog.ProductType, id int64) string {
	return fmt.Sprintf("%s-%d", t, id)
}

func (c *Cart) index(key string) int {
	for i := range c.items {
		if c.items[i].Key == key {
			return i
		}
	}
	return -1
}

// Add puts one more unit of p in the cart and returns the resulting line.
// An existing line keeps its original snapshot.
func (c *Cart) Add(p catalog.Product) LineItem {
	key := Key(p.Type, p.ID)
	if i := c.index(key); i >= 0 {
		c.items[i].Quantity++
		return c.items[i]
	}
	if len(c.items) == 0 {
		c.token = uuid.NewString()
	}
	li := LineItem{
		Key:         key,
		ProductType: p.Type,
		ProductID:   p.ID,
		Name:        p.Name,
		UnitPrice:   p.Price,
		Category:    p.Category,
		ImageRef:    p.ImageRef,
		Quantity:    1,
	}
	c.items = append(c.items, li)
	return li
}

// SetQuantity overwrites the quantity of key, removing the line when qty <= 0.
// Unknown keys are ignored.
func (c *Cart) SetQuantity(key string, qty int) {
	i := c.index(key)
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.removeAt(i)
		return
	}
	c.items[i].Quantity = qty
}

func (c *Cart) Remove(key string) {
	if i := c.index(key); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
	if len(c.items) == 0 {
		c.token = ""
	}
}

func (c *Cart) Clear() {
	c.items = nil
	c.token = ""
}

func (c *Cart) Get(key string) (LineItem, bool) {
	if i := c.index(key); i >= 0 {
		return c.items[i], true
	}
	return LineItem{}, false
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Keys() []string {
	out := make([]string, len(c.items))
	for i, li := range c.items {
		out[i] = li.Key
	}
	return out
}

func (c *Cart) Len() int      { return len(c.items) }
func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

// Token identifies the current fill of the cart: it is minted when the first
// item goes in and dropped when the cart empties.
func (c *Cart) Token() string { return c.token }

func (c *Cart) Clone() *Cart {
	return &Cart{token: c.token, items: c.Items()}
}

type cartJSON struct {
	Token string     `json:"token,omitempty"`
	Items []LineItem `json:"items"`
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(cartJSON{Token: c.token, Items: c.Items()})
}

func (c *Cart) UnmarshalJSON(b []byte) error {
	var v cartJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	c.token = v.Token
	c.items = v.Items
	if len(c.items) == 0 {
		c.items = nil
		c.token = ""
	}
	return nil
}
