package orders

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 30, 0, 123456789, time.FixedZone("CST", -6*3600))
	keys := []string{"pc-1", "mouse-3"}

	o := New("ext", 7, keys, "desc", decimal.RequireFromString("18560"), now)
	keys[0] = "changed"

	assert.Equal(t, StatusProcessing, o.Status)
	assert.Equal(t, []string{"pc-1", "mouse-3"}, o.ProductKeys)
	assert.Equal(t, "18560.00", o.TotalAmount.StringFixed(2))
	assert.Equal(t, time.UTC, o.CreatedAt.Location())
	assert.Equal(t, 123456000, o.CreatedAt.Nanosecond())
	assert.Equal(t, o.CreatedAt.Add(5*24*time.Hour), o.DeliveryAt)
}

func TestChange_Empty(t *testing.T) {
	assert.True(t, Change{}.Empty())
	s := StatusCancelled
	assert.False(t, Change{Status: &s}.Empty())
}
