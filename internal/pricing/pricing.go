// Package pricing computes cart totals under the storefront's flat tax.
package pricing

import (
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat 16% applied to every subtotal.
var TaxRate = decimal.RequireFromString("0.16")

// TaxLabel is how the rate is printed on orders.
const TaxLabel = "16%"

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Compute sums unit_price × quantity at full precision and rounds once to
// cents, half away from zero. Tax comes from the unrounded sum and Total is
// always exactly Subtotal + Tax.
func Compute(c *cart.Cart) Totals {
	sum := decimal.Zero
	if c != nil {
		for _, li := range c.Items() {
			sum = sum.Add(li.LineTotal())
		}
	}
	subtotal := sum.Round(2)
	tax := sum.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
