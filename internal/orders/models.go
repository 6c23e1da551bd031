package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryWindow is how far after creation an order is expected to arrive.
const DeliveryWindow = 5 * 24 * time.Hour

type Order struct {
	ID          int64           `json:"id"`
	ExternalID  string          `json:"-"`
	ProductKeys []string        `json:"product_keys"`
	OwnerID     int64           `json:"owner_id"`
	Description string          `json:"description"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	DeliveryAt  time.Time       `json:"delivery_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// New builds an unsaved order in Processing, due DeliveryWindow after now.
// Timestamps are truncated to what Postgres stores.
func New(externalID string, ownerID int64, keys []string, description string, total decimal.Decimal, now time.Time) *Order {
	created := now.UTC().Truncate(time.Microsecond)
	return &Order{
		ExternalID:  externalID,
		ProductKeys: append([]string(nil), keys...),
		OwnerID:     ownerID,
		Description: description,
		TotalAmount: total.Round(2),
		Status:      StatusProcessing,
		CreatedAt:   created,
		DeliveryAt:  created.Add(DeliveryWindow),
		UpdatedAt:   created,
	}
}

// Change is an admin edit; nil fields are left as they are.
type Change struct {
	Status     *Status
	DeliveryAt *time.Time
}

func (c Change) Empty() bool { return c.Status == nil && c.DeliveryAt == nil }
