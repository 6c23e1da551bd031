package checkout

import (
	"fmt"
	"strconv"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/cespare/xxhash/v2"
)

// ExternalID fingerprints one fill of a cart for one owner. Retrying the same
// checkout yields the same id; a cart refilled after a successful checkout
// carries a new token and so a new id.
func ExternalID(ownerID int64, c *cart.Cart) string {
	d := xxhash.New()
	write := func(s string) {
		_, _ = d.WriteString(s)
		_, _ = d.WriteString("\x00")
	}
	write(strconv.FormatInt(ownerID, 10))
	write(c.Token())
	for _, li := range c.Items() {
		write(li.Key)
		write(strconv.Itoa(li.Quantity))
		write(li.UnitPrice.StringFixed(2))
	}
	return fmt.Sprintf("chk-%016x", d.Sum64())
}
