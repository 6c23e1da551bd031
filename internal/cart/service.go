package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-storefront/internal/catalog"
)

var ErrStorage = errors.New("cart storage failure")

// Storage persists one cart per session. A session without a stored cart
// loads as an empty cart.
type Storage interface {
	LoadCart(ctx context.Context, sessionID string) (*Cart, error)
	SaveCart(ctx context.Context, sessionID string, c *Cart) error
}

// Locker grants exclusive access to a session's cart.
type Locker interface {
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
}

// Service runs every cart mutation as lock, load, mutate, save.
type Service struct {
	Store   Storage
	Locks   Locker
	Catalog catalog.Lookup
}

// Update applies fn to the session's cart under the session lock and saves
// the result. Nothing is saved when fn returns an error.
func (s *Service) Update(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error) {
	unlock, err := s.Locks.Lock(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: lock: %w", ErrStorage, err)
	}
	defer unlock()

	c, err := s.Store.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: load: %w", ErrStorage, err)
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.Store.SaveCart(ctx, sessionID, c); err != nil {
		return nil, fmt.Errorf("%w: save: %w", ErrStorage, err)
	}
	return c, nil
}

// Add looks the product up and adds one unit of it. Lookup failures leave
// the cart untouched.
func (s *Service) Add(ctx context.Context, sessionID string, t catalog.ProductType, id int64) (LineItem, error) {
	if !t.Valid() {
		return LineItem{}, fmt.Errorf("%w: %q", catalog.ErrUnknownType, t)
	}
	p, err := s.Catalog.GetProduct(ctx, t, id)
	if err != nil {
		return LineItem{}, err
	}
	var li LineItem
	_, err = s.Update(ctx, sessionID, func(c *Cart) error {
		li = c.Add(p)
		return nil
	})
	return li, err
}

func (s *Service) SetQuantity(ctx context.Context, sessionID, key string, qty int) (*Cart, error) {
	return s.Update(ctx, sessionID, func(c *Cart) error {
		c.SetQuantity(key, qty)
		return nil
	})
}

func (s *Service) Remove(ctx context.Context, sessionID, key string) (*Cart, error) {
	return s.Update(ctx, sessionID, func(c *Cart) error {
		c.Remove(key)
		return nil
	})
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	_, err := s.Update(ctx, sessionID, func(c *Cart) error {
		c.Clear()
		return nil
	})
	return err
}

// Get returns a snapshot of the session's cart.
func (s *Service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	c, err := s.Store.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: load: %w", ErrStorage, err)
	}
	return c, nil
}
