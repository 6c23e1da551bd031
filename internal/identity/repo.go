package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const userColumns = `id, username, name, email, street, house_number, neighborhood, city, is_active, is_admin, password_hash, created_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Email,
		&u.Address.Street, &u.Address.HouseNumber, &u.Address.Neighborhood, &u.Address.City,
		&u.Active, &u.Admin, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

func (r *Repo) get(ctx context.Context, where string, arg any) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repo) ByID(ctx context.Context, id int64) (User, error) {
	return r.get(ctx, `id=$1`, id)
}

func (r *Repo) ByUsername(ctx context.Context, username string) (User, error) {
	return r.get(ctx, `username=$1`, username)
}

func (r *Repo) Create(ctx context.Context, u *User) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO users(username, name, email, street, house_number, neighborhood, city, is_active, is_admin, password_hash)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at`,
		u.Username, u.Name, u.Email,
		u.Address.Street, u.Address.HouseNumber, u.Address.Neighborhood, u.Address.City,
		u.Active, u.Admin, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	return mapUnique(err)
}

func (r *Repo) UpdateProfile(ctx context.Context, u *User) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE users SET name=$2, email=$3, street=$4, house_number=$5, neighborhood=$6, city=$7
		WHERE id=$1`,
		u.ID, u.Name, u.Email, u.Address.Street, u.Address.HouseNumber, u.Address.Neighborhood, u.Address.City)
	if err != nil {
		return mapUnique(err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFlags updates the admin-controlled active and admin flags.
func (r *Repo) SetFlags(ctx context.Context, id int64, active, admin bool) error {
	ct, err := r.DB.Exec(ctx, `UPDATE users SET is_active=$2, is_admin=$3 WHERE id=$1`, id, active, admin)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func mapUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "username"):
			return &DuplicateError{Field: "username"}
		case strings.Contains(pgErr.ConstraintName, "email"):
			return &DuplicateError{Field: "email"}
		}
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
