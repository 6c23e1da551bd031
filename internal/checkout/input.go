package checkout

import (
	"fmt"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/identity"
	"github.com/ariefcatur/go-storefront/internal/pricing"
	"github.com/ariefcatur/go-storefront/internal/validation"
)

type PaymentMethod string

const (
	CreditCard   PaymentMethod = "credit_card"
	DebitCard    PaymentMethod = "debit_card"
	PayPal       PaymentMethod = "paypal"
	BankTransfer PaymentMethod = "bank_transfer"
)

var paymentLabels = map[PaymentMethod]string{
	CreditCard:   "Tarjeta de Crédito",
	DebitCard:    "Tarjeta de Débito",
	PayPal:       "PayPal",
	BankTransfer: "Transferencia Bancaria",
}

// PaymentMethods lists the accepted methods in form order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{CreditCard, DebitCard, PayPal, BankTransfer}
}

func (m PaymentMethod) Valid() bool {
	_, ok := paymentLabels[m]
	return ok
}

func (m PaymentMethod) Label() string { return paymentLabels[m] }

// Input is the checkout form as submitted.
type Input struct {
	PaymentMethod string `json:"payment_method"`
	Street        string `json:"street"`
	HouseNumber   string `json:"house_number"`
	Neighborhood  string `json:"neighborhood"`
	City          string `json:"city"`
	Notes         string `json:"notes"`
}

// Prefill seeds the form with the user's saved address.
func Prefill(u *identity.User) Input {
	if u == nil {
		return Input{}
	}
	return Input{
		Street:       u.Address.Street,
		HouseNumber:  u.Address.HouseNumber,
		Neighborhood: u.Address.Neighborhood,
		City:         u.Address.City,
	}
}

// Shipping is a validated Input.
type Shipping struct {
	Method  PaymentMethod
	Address identity.Address
	Notes   string
}

func (in Input) Validate() (Shipping, error) {
	errs := validation.Errors{}
	m := PaymentMethod(strings.TrimSpace(in.PaymentMethod))
	if m == "" {
		errs.Add("payment_method", "this field is required")
	} else if !m.Valid() {
		errs.Add("payment_method", fmt.Sprintf("%q is not a valid choice", in.PaymentMethod))
	}
	errs.Required("street", in.Street)
	errs.Required("house_number", in.HouseNumber)
	errs.Required("neighborhood", in.Neighborhood)
	errs.Required("city", in.City)
	if err := errs.Err(); err != nil {
		return Shipping{}, err
	}
	return Shipping{
		Method: m,
		Address: identity.Address{
			Street:       strings.TrimSpace(in.Street),
			HouseNumber:  strings.TrimSpace(in.HouseNumber),
			Neighborhood: strings.TrimSpace(in.Neighborhood),
			City:         strings.TrimSpace(in.City),
		},
		Notes: strings.TrimSpace(in.Notes),
	}, nil
}

func (s Shipping) AddressLine() string {
	a := s.Address
	return fmt.Sprintf("%s #%s, %s, %s", a.Street, a.HouseNumber, a.Neighborhood, a.City)
}

// Describe renders the order description stored with every order.
func Describe(s Shipping, items []cart.LineItem) string {
	summary := make([]string, len(items))
	for i, li := range items {
		summary[i] = fmt.Sprintf("%s x %d ($%s)", li.Name, li.Quantity, li.UnitPrice.StringFixed(2))
	}
	return fmt.Sprintf("Método de pago: %s. Dirección de envío: %s. Impuestos aplicados: %s. Notas: %s. Productos: %s.",
		s.Method.Label(), s.AddressLine(), pricing.TaxLabel, s.Notes, strings.Join(summary, " | "))
}
