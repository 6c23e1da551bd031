package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type OrderReader interface {
	GetOrder(ctx context.Context, id int64) (orders.Order, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]orders.Order, error)
}

// OrdersHandler serves a customer's own orders.
type OrdersHandler struct {
	Orders OrderReader
	Cache  *orders.StatusCache
	Log    *zap.Logger

	loads singleflight.Group // collapses concurrent cache misses per order
}

// Register expects r to be behind RequireUser.
func (h *OrdersHandler) Register(r chi.Router) {
	r.Get("/orders", h.list)
	r.Get("/orders/{id}/status", h.status)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orders.ListByOwner(r.Context(), CurrentUser(r.Context()).ID)
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": toOrders(list)})
}

// status reads the Redis projection first and falls back to Postgres.
// Orders of other users look like missing ones.
func (h *OrdersHandler) status(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		fail(w, r, h.Log, orders.ErrNotFound)
		return
	}
	ctx := r.Context()
	me := CurrentUser(ctx).ID

	// 1) cache
	v, hit, err := h.Cache.Get(ctx, id)
	if err != nil {
		h.Log.Warn("status cache read failed", zap.Int64("order_id", id), zap.Error(err))
	}
	if hit {
		if v.OwnerID != me {
			fail(w, r, h.Log, orders.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, v)
		return
	}

	// 2) fallback DB, refilling the cache
	res, err, _ := h.loads.Do(strconv.FormatInt(id, 10), func() (any, error) {
		o, err := h.Orders.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		v := orders.ViewOf(o)
		if err := h.Cache.Set(ctx, v); err != nil {
			h.Log.Warn("status cache write failed", zap.Int64("order_id", id), zap.Error(err))
		}
		return v, nil
	})
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	v = res.(orders.StatusView)
	if v.OwnerID != me {
		fail(w, r, h.Log, orders.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
