// Package suppliers keeps the supplier records managed from the back office.
package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("supplier not found")

type Supplier struct {
	ID         int64           `json:"id"`
	ProductRef string          `json:"product_ref"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
}

type Input struct {
	ProductRef string
	Name       string
	Price      string
}

func (in Input) Validate() (Supplier, error) {
	errs := validation.Errors{}
	errs.Required("product_ref", in.ProductRef)
	errs.Required("name", in.Name)
	price, err := catalog.ParsePrice(in.Price)
	if err != nil {
		errs.Add("price", err.Error())
	}
	if err := errs.Err(); err != nil {
		return Supplier{}, err
	}
	return Supplier{
		ProductRef: strings.TrimSpace(in.ProductRef),
		Name:       strings.TrimSpace(in.Name),
		Price:      price,
	}, nil
}

type Repo struct{ DB *pgxpool.Pool }

func scanSupplier(row pgx.Row) (Supplier, error) {
	var (
		s     Supplier
		price string
	)
	if err := row.Scan(&s.ID, &s.ProductRef, &s.Name, &price); err != nil {
		return Supplier{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return Supplier{}, fmt.Errorf("supplier %d price %q: %w", s.ID, price, err)
	}
	s.Price = d
	return s, nil
}

func (r *Repo) List(ctx context.Context) ([]Supplier, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, product_ref, name, price::text FROM suppliers ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (Supplier, error) {
	s, err := scanSupplier(r.DB.QueryRow(ctx, `SELECT id, product_ref, name, price::text FROM suppliers WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return s, err
}

func (r *Repo) Create(ctx context.Context, s *Supplier) error {
	return r.DB.QueryRow(ctx, `INSERT INTO suppliers(product_ref, name, price) VALUES ($1, $2, $3::numeric) RETURNING id`,
		s.ProductRef, s.Name, s.Price.StringFixed(2)).Scan(&s.ID)
}

func (r *Repo) Update(ctx context.Context, s *Supplier) error {
	ct, err := r.DB.Exec(ctx, `UPDATE suppliers SET product_ref=$2, name=$3, price=$4::numeric WHERE id=$1`,
		s.ID, s.ProductRef, s.Name, s.Price.StringFixed(2))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, s.ID)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM suppliers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`).Scan(&n)
	return n, err
}
