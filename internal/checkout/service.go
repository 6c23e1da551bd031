// Package checkout turns a session cart into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/identity"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/pricing"
	"go.uber.org/zap"
)

var (
	ErrUnauthorized = errors.New("checkout requires an authenticated user")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrStorage      = cart.ErrStorage
)

type OrderStore interface {
	CreateOrderTx(ctx context.Context, o *orders.Order) (existed bool, err error)
}

// Notifier is told about every order a checkout produced.
type Notifier interface {
	OrderCreated(ctx context.Context, o orders.Order)
}

type Service struct {
	Carts  *cart.Service
	Orders OrderStore
	Notify []Notifier
	Log    *zap.Logger
	Now    func() time.Time
}

// Form is what the checkout page shows before submission.
type Form struct {
	Input  Input           `json:"input"`
	Items  []cart.LineItem `json:"items"`
	Totals pricing.Totals  `json:"totals"`
}

type Result struct {
	Order  orders.Order
	Totals pricing.Totals
	// Replayed is true when the order had already been written by an
	// earlier attempt of the same checkout.
	Replayed bool
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Form returns the pre-filled checkout form for the session's cart.
func (s *Service) Form(ctx context.Context, user *identity.User, sessionID string) (Form, error) {
	if user == nil {
		return Form{}, ErrUnauthorized
	}
	c, err := s.Carts.Get(ctx, sessionID)
	if err != nil {
		return Form{}, err
	}
	if c.IsEmpty() {
		return Form{}, ErrEmptyCart
	}
	return Form{Input: Prefill(user), Items: c.Items(), Totals: pricing.Compute(c)}, nil
}

// Checkout validates in, writes the order and empties the cart, all under
// the session lock. The cart is cleared only after the order write commits;
// any earlier failure leaves it as it was.
func (s *Service) Checkout(ctx context.Context, user *identity.User, sessionID string, in Input) (Result, error) {
	if user == nil {
		return Result{}, ErrUnauthorized
	}
	log := logging.WithTrace(ctx, s.Log).With(zap.Int64("user_id", user.ID))

	var res Result
	_, err := s.Carts.Update(ctx, sessionID, func(c *cart.Cart) error {
		if c.IsEmpty() {
			return ErrEmptyCart
		}
		ship, err := in.Validate()
		if err != nil {
			return err
		}

		totals := pricing.Compute(c)
		o := orders.New(ExternalID(user.ID, c), user.ID, c.Keys(), Describe(ship, c.Items()), totals.Total, s.now())
		existed, err := s.Orders.CreateOrderTx(ctx, o)
		if err != nil {
			return fmt.Errorf("%w: create order: %w", ErrStorage, err)
		}

		res = Result{Order: *o, Totals: totals, Replayed: existed}
		c.Clear()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStorage) {
			log.Error("checkout failed", zap.Error(err))
		}
		return Result{}, err
	}

	// a replayed order never got this far on its first attempt, so it is announced now
	for _, n := range s.Notify {
		n.OrderCreated(ctx, res.Order)
	}
	log.Info("order placed",
		zap.Int64("order_id", res.Order.ID),
		zap.String("total", res.Order.TotalAmount.StringFixed(2)),
		zap.Bool("replayed", res.Replayed))
	return res, nil
}

// ConfirmationMessage is shown to the customer after a successful checkout.
func ConfirmationMessage(o orders.Order) string {
	return fmt.Sprintf("Pedido generado con éxito. Número de pedido #%d.", o.ID)
}
