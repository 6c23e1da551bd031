package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"` // e.g. "storefront-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID     int64     `json:"order_id"`
	ExternalID  string    `json:"external_id"`
	OwnerID     int64     `json:"owner_id"`
	ProductKeys []string  `json:"product_keys"`
	TotalAmount string    `json:"total_amount"` // fixed, 2 decimals
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	DeliveryAt  time.Time `json:"delivery_at"`
}

type OrderStatusChangedPayload struct {
	OrderID    int64     `json:"order_id"`
	OwnerID    int64     `json:"owner_id"`
	From       Status    `json:"from"`
	To         Status    `json:"to"`
	DeliveryAt time.Time `json:"delivery_at"`
}
