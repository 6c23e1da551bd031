package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
)

var ErrUnavailable = errors.New("catalog temporarily unavailable")

// BreakerLookup fails fast while the underlying catalog keeps erroring.
// A missing product is an answer, not a failure, and never trips it.
type BreakerLookup struct {
	next Lookup
	cb   *gobreaker.CircuitBreaker[Product]
}

func NewBreakerLookup(next Lookup, name string, failures uint32, openFor time.Duration) *BreakerLookup {
	return &BreakerLookup{
		next: next,
		cb: gobreaker.NewCircuitBreaker[Product](gobreaker.Settings{
			Name:    name,
			Timeout: openFor,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= failures
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrNotFound)
			},
		}),
	}
}

func (b *BreakerLookup) GetProduct(ctx context.Context, t ProductType, id int64) (Product, error) {
	p, err := b.cb.Execute(func() (Product, error) {
		return b.next.GetProduct(ctx, t, id)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Product{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return p, err
}
