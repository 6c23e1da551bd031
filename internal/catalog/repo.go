package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ DB *pgxpool.Pool }

const productColumns = `product_type, id, name, price::text, category, image_ref, size, color`

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p     Product
		t     string
		price string
	)
	if err := row.Scan(&t, &p.ID, &p.Name, &price, &p.Category, &p.ImageRef, &p.Size, &p.Color); err != nil {
		return Product{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return Product{}, fmt.Errorf("product %d price %q: %w", p.ID, price, err)
	}
	p.Type = ProductType(t)
	p.Price = d
	return p, nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, t ProductType, id int64) (Product, error) {
	if !t.Valid() {
		return Product{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	row := r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE product_type=$1 AND id=$2`, string(t), id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("%w: %s-%d", ErrNotFound, t, id)
	}
	return p, err
}

func (r *Repo) ListByType(ctx context.Context, t ProductType) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products WHERE product_type=$1 ORDER BY id`, string(t))
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// Search matches term against name or category, case-insensitively, across every type.
func (r *Repo) Search(ctx context.Context, term string) ([]Product, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(term)) + "%"
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products
		WHERE name ILIKE $1 OR category ILIKE $1
		ORDER BY product_type, id`, pattern)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// Featured returns the first perType products of each type.
func (r *Repo) Featured(ctx context.Context, perType int) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM (
			SELECT *, ROW_NUMBER() OVER (PARTITION BY product_type ORDER BY id) AS rn FROM products
		) ranked WHERE rn <= $1 ORDER BY product_type, id`, perType)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *Repo) Create(ctx context.Context, p *Product) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO products(product_type, name, price, category, image_ref, size, color)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, $7)
		RETURNING id`,
		string(p.Type), p.Name, p.Price.StringFixed(2), p.Category, p.ImageRef, p.Size, p.Color,
	).Scan(&p.ID)
}

func (r *Repo) Update(ctx context.Context, p *Product) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET name=$3, price=$4::numeric, category=$5, image_ref=$6, size=$7, color=$8, updated_at=NOW()
		WHERE product_type=$1 AND id=$2`,
		string(p.Type), p.ID, p.Name, p.Price.StringFixed(2), p.Category, p.ImageRef, p.Size, p.Color,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s-%d", ErrNotFound, p.Type, p.ID)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, t ProductType, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE product_type=$1 AND id=$2`, string(t), id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s-%d", ErrNotFound, t, id)
	}
	return nil
}

// CountByType reports how many products each type holds; absent types count zero.
func (r *Repo) CountByType(ctx context.Context) (map[ProductType]int, error) {
	out := make(map[ProductType]int, len(typeTable))
	for _, t := range Types() {
		out[t] = 0
	}
	rows, err := r.DB.Query(ctx, `SELECT product_type, COUNT(*) FROM products GROUP BY product_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			t string
			n int
		)
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		out[ProductType(t)] = n
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
