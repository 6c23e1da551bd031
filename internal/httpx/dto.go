package httpx

import (
	"time"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/pricing"
	"github.com/ariefcatur/go-storefront/internal/suppliers"
	"github.com/shopspring/decimal"
)

// Money goes over the wire as a fixed two-decimal string.
func money(d decimal.Decimal) string { return d.StringFixed(2) }

type productDTO struct {
	Type     catalog.ProductType `json:"type"`
	TypeName string              `json:"type_name"`
	ID       int64               `json:"id"`
	Key      string              `json:"key"`
	Name     string              `json:"name"`
	Price    string              `json:"price"`
	Category string              `json:"category"`
	ImageRef string              `json:"image_ref"`
	Size     string              `json:"size,omitempty"`
	Color    string              `json:"color,omitempty"`
}

func toProduct(p catalog.Product) productDTO {
	return productDTO{
		Type:     p.Type,
		TypeName: p.Type.DisplayName(),
		ID:       p.ID,
		Key:      cart.Key(p.Type, p.ID),
		Name:     p.Name,
		Price:    money(p.Price),
		Category: p.Category,
		ImageRef: p.ImageRef,
		Size:     p.Size,
		Color:    p.Color,
	}
}

func toProducts(ps []catalog.Product) []productDTO {
	out := make([]productDTO, len(ps))
	for i, p := range ps {
		out[i] = toProduct(p)
	}
	return out
}

type lineDTO struct {
	Key         string              `json:"key"`
	ProductType catalog.ProductType `json:"product_type"`
	ProductID   int64               `json:"product_id"`
	Name        string              `json:"name"`
	UnitPrice   string              `json:"unit_price"`
	Category    string              `json:"category"`
	ImageRef    string              `json:"image_ref"`
	Quantity    int                 `json:"quantity"`
	LineTotal   string              `json:"line_total"`
}

type totalsDTO struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	TaxRate  string `json:"tax_rate"`
	Total    string `json:"total"`
}

type cartDTO struct {
	Items   []lineDTO `json:"items"`
	Count   int       `json:"count"`
	Totals  totalsDTO `json:"totals"`
	Message string    `json:"message,omitempty"`
}

func toLines(items []cart.LineItem) []lineDTO {
	out := make([]lineDTO, len(items))
	for i, li := range items {
		out[i] = lineDTO{
			Key:         li.Key,
			ProductType: li.ProductType,
			ProductID:   li.ProductID,
			Name:        li.Name,
			UnitPrice:   money(li.UnitPrice),
			Category:    li.Category,
			ImageRef:    li.ImageRef,
			Quantity:    li.Quantity,
			LineTotal:   money(li.LineTotal()),
		}
	}
	return out
}

func toTotals(t pricing.Totals) totalsDTO {
	return totalsDTO{
		Subtotal: money(t.Subtotal),
		Tax:      money(t.Tax),
		TaxRate:  pricing.TaxLabel,
		Total:    money(t.Total),
	}
}

func toCart(c *cart.Cart, msg string) cartDTO {
	count := 0
	for _, li := range c.Items() {
		count += li.Quantity
	}
	return cartDTO{
		Items:   toLines(c.Items()),
		Count:   count,
		Totals:  toTotals(pricing.Compute(c)),
		Message: msg,
	}
}

type orderDTO struct {
	ID          int64         `json:"id"`
	ProductKeys []string      `json:"product_keys"`
	OwnerID     int64         `json:"owner_id"`
	Description string        `json:"description"`
	TotalAmount string        `json:"total_amount"`
	Status      orders.Status `json:"status"`
	StatusLabel string        `json:"status_label"`
	CreatedAt   time.Time     `json:"created_at"`
	DeliveryAt  time.Time     `json:"delivery_at"`
}

func toOrder(o orders.Order) orderDTO {
	return orderDTO{
		ID:          o.ID,
		ProductKeys: o.ProductKeys,
		OwnerID:     o.OwnerID,
		Description: o.Description,
		TotalAmount: money(o.TotalAmount),
		Status:      o.Status,
		StatusLabel: o.Status.Label(),
		CreatedAt:   o.CreatedAt,
		DeliveryAt:  o.DeliveryAt,
	}
}

func toOrders(list []orders.Order) []orderDTO {
	out := make([]orderDTO, len(list))
	for i, o := range list {
		out[i] = toOrder(o)
	}
	return out
}

type supplierDTO struct {
	ID         int64  `json:"id"`
	ProductRef string `json:"product_ref"`
	Name       string `json:"name"`
	Price      string `json:"price"`
}

func toSupplier(s suppliers.Supplier) supplierDTO {
	return supplierDTO{ID: s.ID, ProductRef: s.ProductRef, Name: s.Name, Price: money(s.Price)}
}
