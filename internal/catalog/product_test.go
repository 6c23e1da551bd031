package catalog

import (
	"testing"

	"github.com/ariefcatur/go-storefront/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductInput_Validate(t *testing.T) {
	p, err := ProductInput{
		Name:     " Monitor 27 ",
		Price:    "4999.90",
		Category: "Gaming",
		Size:     "27",
		Color:    "ignored",
	}.Validate(TypeMonitor)
	require.NoError(t, err)

	assert.Equal(t, TypeMonitor, p.Type)
	assert.Equal(t, "Monitor 27", p.Name)
	assert.True(t, decimal.RequireFromString("4999.9").Equal(p.Price))
	assert.Equal(t, "27", p.Size)
	assert.Empty(t, p.Color)
}

func TestProductInput_ValidateFieldErrors(t *testing.T) {
	_, err := ProductInput{Price: "-1"}.Validate(TypeMouse)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "name")
	assert.Contains(t, verrs, "category")
	assert.Contains(t, verrs, "color")
	assert.Equal(t, "must not be negative", verrs["price"])
	assert.NotContains(t, verrs, "size")
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in      string
		wantErr string
	}{
		{"15000", ""},
		{"0.5", ""},
		{"10.25", ""},
		{"", "this field is required"},
		{"abc", "must be a number"},
		{"1.999", "must have at most two decimals"},
		{"-0.01", "must not be negative"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := ParsePrice(tc.in)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.wantErr)
		})
	}
}
