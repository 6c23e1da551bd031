package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureSink struct{ msgs []kafkago.Message }

func (s *captureSink) Publish(key, value []byte, headers ...kafkago.Header) {
	s.msgs = append(s.msgs, kafkago.Message{Key: key, Value: value, Headers: headers})
}

func setupProjector(t *testing.T) (*Projector, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return &Projector{
		Cache: &StatusCache{Redis: client},
		Redis: client,
		Name:  "projector",
		Log:   zap.NewNop(),
	}, mr
}

func sampleOrder() Order {
	o := New("ext-1", 7, []string{"pc-1"}, "desc", decimal.NewFromInt(100), time.Now())
	o.ID = 42
	return *o
}

func TestEvents_EnvelopeAndHeaders(t *testing.T) {
	created, changed := &captureSink{}, &captureSink{}
	ev := &Events{Created: created, StatusChanged: changed, Service: "storefront-api"}
	o := sampleOrder()

	ev.OrderCreated(context.Background(), o)
	require.Len(t, created.msgs, 1)
	assert.Equal(t, []byte("42"), created.msgs[0].Key)
	assert.Equal(t, "x-event-type", created.msgs[0].Headers[0].Key)
	assert.Equal(t, EventOrderCreated, string(created.msgs[0].Headers[0].Value))

	var env Envelope
	require.NoError(t, json.Unmarshal(created.msgs[0].Value, &env))
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "42", env.CorrelationID)
	assert.Equal(t, "storefront-api", env.Producer)
	var pl OrderCreatedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &pl))
	assert.Equal(t, "100.00", pl.TotalAmount)

	o.Status = StatusInTransit
	ev.OrderStatusChanged(context.Background(), o, StatusProcessing)
	require.Len(t, changed.msgs, 1)
	assert.Empty(t, created.msgs[1:])
}

func TestProjector_CreatedThenStatusChanged(t *testing.T) {
	p, mr := setupProjector(t)
	sink := &captureSink{}
	ev := &Events{Created: sink, StatusChanged: sink, Service: "test"}
	ctx := context.Background()
	o := sampleOrder()

	ev.OrderCreated(ctx, o)
	o.Status = StatusInTransit
	ev.OrderStatusChanged(ctx, o, StatusProcessing)

	for _, m := range sink.msgs {
		require.NoError(t, p.Handle(ctx, m))
	}

	v, ok, err := p.Cache.Get(ctx, 42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusInTransit, v.Status)
	assert.Equal(t, "En camino", v.Label)
	assert.Equal(t, int64(7), v.OwnerID)
	assert.Equal(t, redisx.TTLStatusCache, mr.TTL(fmt.Sprintf(redisx.KeyOrderStatus, 42)))
}

func TestProjector_LateCreatedDoesNotOverwrite(t *testing.T) {
	p, _ := setupProjector(t)
	sink := &captureSink{}
	ev := &Events{Created: sink, StatusChanged: sink}
	ctx := context.Background()
	o := sampleOrder()

	ev.OrderCreated(ctx, o)
	o.Status = StatusCancelled
	ev.OrderStatusChanged(ctx, o, StatusProcessing)

	require.NoError(t, p.Handle(ctx, sink.msgs[1]))
	require.NoError(t, p.Handle(ctx, sink.msgs[0]))

	v, _, err := p.Cache.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, v.Status)
}

func TestProjector_DedupsByEventID(t *testing.T) {
	p, _ := setupProjector(t)
	sink := &captureSink{}
	ev := &Events{Created: sink, StatusChanged: sink}
	ctx := context.Background()
	o := sampleOrder()
	o.Status = StatusDelivered
	ev.OrderStatusChanged(ctx, o, StatusProcessing)
	msg := sink.msgs[0]

	require.NoError(t, p.Handle(ctx, msg))
	// a manual correction made after the event was projected
	require.NoError(t, p.Cache.Set(ctx, StatusView{OrderID: 42, Status: StatusCancelled}))

	require.NoError(t, p.Handle(ctx, msg))
	v, _, err := p.Cache.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, v.Status)
}

func TestProjector_IgnoresGarbageAndUnknownEvents(t *testing.T) {
	p, _ := setupProjector(t)
	ctx := context.Background()

	assert.NoError(t, p.Handle(ctx, kafkago.Message{Value: []byte("nope")}))
	unknown, _ := json.Marshal(Envelope{EventID: "e1", EventType: "SomethingElse", Payload: json.RawMessage(`{}`)})
	assert.NoError(t, p.Handle(ctx, kafkago.Message{Value: unknown}))

	_, ok, err := p.Cache.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}
