package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// StatusView is the cached projection served by the order status endpoint.
type StatusView struct {
	OrderID    int64     `json:"order_id"`
	OwnerID    int64     `json:"owner_id"`
	Status     Status    `json:"status"`
	Label      string    `json:"label"`
	DeliveryAt time.Time `json:"delivery_at"`
}

func ViewOf(o Order) StatusView {
	return StatusView{
		OrderID:    o.ID,
		OwnerID:    o.OwnerID,
		Status:     o.Status,
		Label:      o.Status.Label(),
		DeliveryAt: o.DeliveryAt,
	}
}

type StatusCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func (c *StatusCache) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return redisx.TTLStatusCache
}

// Get returns ok=false on a cache miss.
func (c *StatusCache) Get(ctx context.Context, orderID int64) (StatusView, bool, error) {
	b, err := c.Redis.Get(ctx, fmt.Sprintf(redisx.KeyOrderStatus, orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return StatusView{}, false, nil
	}
	if err != nil {
		return StatusView{}, false, err
	}
	var v StatusView
	if err := json.Unmarshal(b, &v); err != nil {
		return StatusView{}, false, fmt.Errorf("decode status view: %w", err)
	}
	return v, true, nil
}

func (c *StatusCache) Set(ctx context.Context, v StatusView) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Redis.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, v.OrderID), b, c.ttl()).Err()
}

// SetIfAbsent writes v only when nothing is cached yet, so a late creation
// event cannot overwrite a newer status.
func (c *StatusCache) SetIfAbsent(ctx context.Context, v StatusView) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Redis.SetNX(ctx, fmt.Sprintf(redisx.KeyOrderStatus, v.OrderID), b, c.ttl()).Err()
}

// OrderCreated primes the cache for a new order; a failed write only means
// the first status read goes to Postgres.
func (c *StatusCache) OrderCreated(ctx context.Context, o Order) {
	_ = c.Set(ctx, ViewOf(o))
}

// OrderStatusChanged refreshes the cached view after an admin edit.
func (c *StatusCache) OrderStatusChanged(ctx context.Context, o Order, _ Status) {
	_ = c.Set(ctx, ViewOf(o))
}
