// Package session keeps per-session state (cart and logged-in user) in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewID() string { return uuid.NewString() }

// ValidID reports whether id looks like a session id this store issued.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Store) LoadCart(ctx context.Context, sid string) (*cart.Cart, error) {
	b, err := s.Redis.Get(ctx, fmt.Sprintf(redisx.KeySessionCart, sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &cart.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	c := &cart.Cart{}
	if err := json.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

// SaveCart writes the cart and slides the session expiry.
func (s *Store) SaveCart(ctx context.Context, sid string, c *cart.Cart) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.Redis.Set(ctx, fmt.Sprintf(redisx.KeySessionCart, sid), b, s.TTL).Err()
}

// UserID returns the user bound to the session; ok is false for anonymous sessions.
func (s *Store) UserID(ctx context.Context, sid string) (id int64, ok bool, err error) {
	v, err := s.Redis.Get(ctx, fmt.Sprintf(redisx.KeySessionUser, sid)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err = strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("decode session user: %w", err)
	}
	return id, true, nil
}

func (s *Store) SetUser(ctx context.Context, sid string, userID int64) error {
	return s.Redis.Set(ctx, fmt.Sprintf(redisx.KeySessionUser, sid), userID, s.TTL).Err()
}

// Touch extends the session expiry without changing its contents.
func (s *Store) Touch(ctx context.Context, sid string) error {
	_, err := s.Redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Expire(ctx, fmt.Sprintf(redisx.KeySessionCart, sid), s.TTL)
		p.Expire(ctx, fmt.Sprintf(redisx.KeySessionUser, sid), s.TTL)
		return nil
	})
	return err
}

// Rotate moves the session's cart to a new id and drops the old one.
func (s *Store) Rotate(ctx context.Context, old string) (string, error) {
	c, err := s.LoadCart(ctx, old)
	if err != nil {
		return "", err
	}
	sid := NewID()
	if err := s.SaveCart(ctx, sid, c); err != nil {
		return "", err
	}
	if err := s.Destroy(ctx, old); err != nil {
		return "", err
	}
	return sid, nil
}

// Destroy drops everything held for the session, cart included.
func (s *Store) Destroy(ctx context.Context, sid string) error {
	return s.Redis.Del(ctx,
		fmt.Sprintf(redisx.KeySessionCart, sid),
		fmt.Sprintf(redisx.KeySessionUser, sid),
	).Err()
}
