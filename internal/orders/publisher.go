package orders

import (
	"context"
	"strconv"
	"time"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/trace"
)

// Sink accepts encoded events; *kafka.Producer satisfies it.
type Sink interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Events publishes order lifecycle events, one topic per event type.
type Events struct {
	Created       Sink
	StatusChanged Sink
	Service       string
	Now           func() time.Time
}

func (e *Events) now() time.Time {
	if e.Now != nil {
		return e.Now().UTC()
	}
	return time.Now().UTC()
}

func (e *Events) envelope(ctx context.Context, eventType string, orderID int64, payload any) Envelope {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    e.now(),
		Producer:      e.Service,
		CorrelationID: strconv.FormatInt(orderID, 10),
		Payload:       kafkax.MustMarshal(payload),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		ev.TraceID = sc.TraceID().String()
	}
	return ev
}

func headers(eventType string) []kafkago.Header {
	return []kafkago.Header{
		{Key: "x-event-type", Value: []byte(eventType)},
		{Key: "x-event-version", Value: []byte("1")},
	}
}

func (e *Events) OrderCreated(ctx context.Context, o Order) {
	ev := e.envelope(ctx, EventOrderCreated, o.ID, OrderCreatedPayload{
		OrderID:     o.ID,
		ExternalID:  o.ExternalID,
		OwnerID:     o.OwnerID,
		ProductKeys: o.ProductKeys,
		TotalAmount: o.TotalAmount.StringFixed(2),
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		DeliveryAt:  o.DeliveryAt,
	})
	e.Created.Publish(PartitionKey(o.ID), kafkax.MustMarshal(ev), headers(EventOrderCreated)...)
}

func (e *Events) OrderStatusChanged(ctx context.Context, o Order, from Status) {
	ev := e.envelope(ctx, EventOrderStatusChanged, o.ID, OrderStatusChangedPayload{
		OrderID:    o.ID,
		OwnerID:    o.OwnerID,
		From:       from,
		To:         o.Status,
		DeliveryAt: o.DeliveryAt,
	})
	e.StatusChanged.Publish(PartitionKey(o.ID), kafkax.MustMarshal(ev), headers(EventOrderStatusChanged)...)
}
