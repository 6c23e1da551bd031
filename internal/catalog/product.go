package catalog

import (
	"context"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/validation"
	"github.com/shopspring/decimal"
)

type Product struct {
	Type     ProductType     `json:"type"`
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	ImageRef string          `json:"image_ref"`
	Size     string          `json:"size,omitempty"`
	Color    string          `json:"color,omitempty"`
}

// Lookup resolves a (type, id) pair to the product as it is right now.
type Lookup interface {
	GetProduct(ctx context.Context, t ProductType, id int64) (Product, error)
}

// ProductInput is the admin form for creating or editing a product.
type ProductInput struct {
	Name     string
	Price    string
	Category string
	ImageRef string
	Size     string
	Color    string
}

// Validate checks the form against the rules of product type t and returns
// the product it describes.
func (in ProductInput) Validate(t ProductType) (Product, error) {
	errs := validation.Errors{}
	errs.Required("name", in.Name)
	errs.Required("category", in.Category)

	price, err := ParsePrice(in.Price)
	if err != nil {
		errs.Add("price", err.Error())
	}
	if t.HasSize() {
		errs.Required("size", in.Size)
	}
	if t.HasColor() {
		errs.Required("color", in.Color)
	}
	if err := errs.Err(); err != nil {
		return Product{}, err
	}

	p := Product{
		Type:     t,
		Name:     strings.TrimSpace(in.Name),
		Price:    price,
		Category: strings.TrimSpace(in.Category),
		ImageRef: strings.TrimSpace(in.ImageRef),
	}
	if t.HasSize() {
		p.Size = strings.TrimSpace(in.Size)
	}
	if t.HasColor() {
		p.Color = strings.TrimSpace(in.Color)
	}
	return p, nil
}

type priceError string

func (e priceError) Error() string { return string(e) }

// ParsePrice accepts a non-negative amount with at most two decimals.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, priceError("this field is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, priceError("must be a number")
	}
	if d.IsNegative() {
		return decimal.Decimal{}, priceError("must not be negative")
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Decimal{}, priceError("must have at most two decimals")
	}
	return d, nil
}
