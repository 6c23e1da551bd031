// Package identity registers and authenticates storefront users.
package identity

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInactive           = errors.New("user is inactive")
	ErrDuplicate          = errors.New("already taken")
)

// DuplicateError reports which unique field collided.
type DuplicateError struct{ Field string }

func (e *DuplicateError) Error() string        { return e.Field + " " + ErrDuplicate.Error() }
func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// Address holds the shipping defaults used to pre-fill checkout.
type Address struct {
	Street       string `json:"street"`
	HouseNumber  string `json:"house_number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
}

func (a Address) Complete() bool {
	for _, v := range []string{a.Street, a.HouseNumber, a.Neighborhood, a.City} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Address      Address   `json:"address"`
	Active       bool      `json:"active"`
	Admin        bool      `json:"admin"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
