package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `id, external_id, product_keys, owner_id, description, total_amount::text, status, created_at, delivery_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o      Order
		total  string
		status string
	)
	err := row.Scan(&o.ID, &o.ExternalID, &o.ProductKeys, &o.OwnerID, &o.Description,
		&total, &status, &o.CreatedAt, &o.DeliveryAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return Order{}, fmt.Errorf("order %d total %q: %w", o.ID, total, err)
	}
	o.TotalAmount = d
	o.Status = Status(status)
	return o, nil
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()
	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CreateOrderTx: idempotent via external_id.
// If an order with o.ExternalID already exists, o is overwritten with the
// stored order and existed is true.
func (r *Repo) CreateOrderTx(ctx context.Context, o *Order) (existed bool, err error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders(external_id, product_keys, owner_id, description, total_amount, status, created_at, delivery_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $7)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING id`,
		o.ExternalID, o.ProductKeys, o.OwnerID, o.Description, o.TotalAmount.StringFixed(2),
		string(o.Status), o.CreatedAt, o.DeliveryAt,
	).Scan(&o.ID)
	switch {
	case err == nil:
		o.UpdatedAt = o.CreatedAt
	case errors.Is(err, pgx.ErrNoRows):
		existing, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE external_id=$1`, o.ExternalID))
		if err != nil {
			return false, err
		}
		*o = existing
		existed = true
	default:
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return existed, nil
}

func (r *Repo) GetOrder(ctx context.Context, id int64) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return o, err
}

// ListByOwner returns the owner's orders, newest first.
func (r *Repo) ListByOwner(ctx context.Context, ownerID int64) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE owner_id=$1 ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// UpdateOrder applies an admin change under a row lock and returns the
// updated order along with the status it had before.
func (r *Repo) UpdateOrder(ctx context.Context, id int64, ch Change) (Order, Status, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cur, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, "", fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Order{}, "", err
	}

	from := cur.Status
	next := cur
	if ch.Status != nil {
		if !CanTransition(from, *ch.Status) {
			return Order{}, "", fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, *ch.Status)
		}
		next.Status = *ch.Status
	}
	if ch.DeliveryAt != nil {
		next.DeliveryAt = ch.DeliveryAt.UTC().Truncate(time.Microsecond)
	}

	err = tx.QueryRow(ctx, `
		UPDATE orders SET status=$2, delivery_at=$3, updated_at=NOW()
		WHERE id=$1
		RETURNING updated_at`,
		id, string(next.Status), next.DeliveryAt,
	).Scan(&next.UpdatedAt)
	if err != nil {
		return Order{}, "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, "", err
	}
	return next, from, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}
