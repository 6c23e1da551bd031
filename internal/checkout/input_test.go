package checkout

import (
	"testing"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/identity"
	"github.com/ariefcatur/go-storefront/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() Input {
	return Input{
		PaymentMethod: "paypal",
		Street:        "Av. Reforma",
		HouseNumber:   "222",
		Neighborhood:  "Juárez",
		City:          "CDMX",
		Notes:         "Tocar el timbre",
	}
}

func TestInput_Validate(t *testing.T) {
	s, err := validInput().Validate()
	require.NoError(t, err)
	assert.Equal(t, PayPal, s.Method)
	assert.Equal(t, "Av. Reforma #222, Juárez, CDMX", s.AddressLine())
}

func TestInput_ValidateRejects(t *testing.T) {
	in := validInput()
	in.PaymentMethod = "bitcoin"
	in.City = "  "
	_, err := in.Validate()

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, `"bitcoin" is not a valid choice`, verrs["payment_method"])
	assert.Equal(t, "this field is required", verrs["city"])
	assert.Len(t, verrs, 2)

	_, err = Input{}.Validate()
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 5)
}

func TestInput_NotesOptional(t *testing.T) {
	in := validInput()
	in.Notes = ""
	s, err := in.Validate()
	require.NoError(t, err)
	assert.Empty(t, s.Notes)
}

func TestPaymentMethods(t *testing.T) {
	for _, m := range PaymentMethods() {
		assert.True(t, m.Valid())
		assert.NotEmpty(t, m.Label())
	}
	assert.Equal(t, "Tarjeta de Crédito", CreditCard.Label())
	assert.False(t, PaymentMethod("bitcoin").Valid())
}

func TestDescribe(t *testing.T) {
	c := &cart.Cart{}
	c.Add(catalog.Product{Type: catalog.TypePC, ID: 1, Name: "PC Gamer", Price: decimal.RequireFromString("15000")})
	c.Add(catalog.Product{Type: catalog.TypeMouse, ID: 3, Name: "Mouse", Price: decimal.RequireFromString("500.00")})
	c.SetQuantity("mouse-3", 2)

	s, err := validInput().Validate()
	require.NoError(t, err)

	assert.Equal(t,
		"Método de pago: PayPal. Dirección de envío: Av. Reforma #222, Juárez, CDMX. "+
			"Impuestos aplicados: 16%. Notas: Tocar el timbre. "+
			"Productos: PC Gamer x 1 ($15000.00) | Mouse x 2 ($500.00).",
		Describe(s, c.Items()))
}

func TestPrefill(t *testing.T) {
	u := &identity.User{Address: identity.Address{Street: "Madero", HouseNumber: "5", Neighborhood: "Centro", City: "CDMX"}}
	in := Prefill(u)
	assert.Equal(t, "Madero", in.Street)
	assert.Empty(t, in.PaymentMethod)
	assert.Equal(t, Input{}, Prefill(nil))
}

func TestExternalID(t *testing.T) {
	c := &cart.Cart{}
	c.Add(catalog.Product{Type: catalog.TypePC, ID: 1, Name: "PC", Price: decimal.NewFromInt(10)})

	a := ExternalID(7, c)
	assert.Equal(t, a, ExternalID(7, c.Clone()))
	assert.NotEqual(t, a, ExternalID(8, c))

	c.SetQuantity("pc-1", 2)
	assert.NotEqual(t, a, ExternalID(7, c))

	refilled := &cart.Cart{}
	refilled.Add(catalog.Product{Type: catalog.TypePC, ID: 1, Name: "PC", Price: decimal.NewFromInt(10)})
	assert.NotEqual(t, a, ExternalID(7, refilled))
}
