package orders

import (
	"context"
	"encoding/json"
	"fmt"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Projector keeps the Redis status cache in step with order events.
type Projector struct {
	Cache *StatusCache
	Redis *redis.Client
	Name  string // dedup namespace
	Log   *zap.Logger
}

// Handle is installed as the consumer handler for both order topics.
func (p *Projector) Handle(ctx context.Context, m kafkago.Message) error {
	// 1) decode envelope
	var env Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		p.Log.Warn("dropping undecodable event", zap.Int64("offset", m.Offset), zap.Error(err))
		return nil
	}

	// 2) dedup on event_id
	dkey := fmt.Sprintf(redisx.KeyDedup, p.Name, env.EventID)
	seen, err := redisx.Exists(ctx, p.Redis, dkey)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	// 3) project
	switch env.EventType {
	case EventOrderCreated:
		pl, err := kafkax.UnwrapPayload[OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		err = p.Cache.SetIfAbsent(ctx, StatusView{
			OrderID:    pl.OrderID,
			OwnerID:    pl.OwnerID,
			Status:     pl.Status,
			Label:      pl.Status.Label(),
			DeliveryAt: pl.DeliveryAt,
		})
		if err != nil {
			return err
		}
	case EventOrderStatusChanged:
		pl, err := kafkax.UnwrapPayload[OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		err = p.Cache.Set(ctx, StatusView{
			OrderID:    pl.OrderID,
			OwnerID:    pl.OwnerID,
			Status:     pl.To,
			Label:      pl.To.Label(),
			DeliveryAt: pl.DeliveryAt,
		})
		if err != nil {
			return err
		}
	default:
		return nil // ignore
	}

	// 4) mark only after the projection is written
	_, err = redisx.MarkOnce(ctx, p.Redis, dkey, redisx.TTLDedup)
	if err == nil {
		p.Log.Debug("projected order event",
			zap.String("event_type", env.EventType),
			zap.String("event_id", env.EventID),
			zap.String("order_id", env.CorrelationID))
	}
	return err
}
