package identity

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

type Store interface {
	ByID(ctx context.Context, id int64) (User, error)
	ByUsername(ctx context.Context, username string) (User, error)
	Create(ctx context.Context, u *User) error
	UpdateProfile(ctx context.Context, u *User) error
	SetFlags(ctx context.Context, id int64, active, admin bool) error
}

type Service struct {
	Users Store
	Cost  int // bcrypt cost; zero means bcrypt.DefaultCost
}

type RegisterInput struct {
	Username        string
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
	Address         Address
}

type ProfileInput struct {
	Name    string
	Email   string
	Address Address
}

func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}

func (in RegisterInput) validate() validation.Errors {
	errs := validation.Errors{}
	errs.Required("username", in.Username)
	errs.Required("name", in.Name)
	errs.Required("email", in.Email)
	errs.Required("password", in.Password)
	if s := strings.TrimSpace(in.Username); s != "" && strings.ContainsAny(s, " \t") {
		errs.Add("username", "must not contain spaces")
	}
	if s := strings.TrimSpace(in.Email); s != "" && !validEmail(s) {
		errs.Add("email", "must be a valid email address")
	}
	if in.Password != "" && len(in.Password) < minPasswordLen {
		errs.Add("password", "must be at least 8 characters")
	}
	if in.Password != in.PasswordConfirm {
		errs.Add("password_confirm", "passwords do not match")
	}
	return errs
}

// Register creates an active, non-admin user. Field problems, including a
// taken username or email, come back as validation.Errors.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if err := in.validate().Err(); err != nil {
		return User{}, err
	}
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return User{}, err
	}
	u := User{
		Username:     strings.TrimSpace(in.Username),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		Address:      trimAddress(in.Address),
		Active:       true,
		PasswordHash: hash,
	}
	if err := s.Users.Create(ctx, &u); err != nil {
		return User{}, duplicateAsField(err)
	}
	return u, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.Users.ByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	if !u.Active {
		return User{}, ErrInactive
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.Users.ByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id int64, in ProfileInput) (User, error) {
	errs := validation.Errors{}
	errs.Required("name", in.Name)
	errs.Required("email", in.Email)
	if e := strings.TrimSpace(in.Email); e != "" && !validEmail(e) {
		errs.Add("email", "must be a valid email address")
	}
	if err := errs.Err(); err != nil {
		return User{}, err
	}

	u, err := s.Users.ByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	u.Name = strings.TrimSpace(in.Name)
	u.Email = strings.TrimSpace(in.Email)
	u.Address = trimAddress(in.Address)
	if err := s.Users.UpdateProfile(ctx, &u); err != nil {
		return User{}, duplicateAsField(err)
	}
	return u, nil
}

// EnsureAdmin registers username as an admin, or promotes it if it exists.
func (s *Service) EnsureAdmin(ctx context.Context, username, email, password string) (User, error) {
	u, err := s.Users.ByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		u, err = s.Register(ctx, RegisterInput{
			Username: username, Name: username, Email: email,
			Password: password, PasswordConfirm: password,
		})
	}
	if err != nil {
		return User{}, err
	}
	if u.Admin && u.Active {
		return u, nil
	}
	if err := s.Users.SetFlags(ctx, u.ID, true, true); err != nil {
		return User{}, err
	}
	u.Active, u.Admin = true, true
	return u, nil
}

func duplicateAsField(err error) error {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return validation.Errors{dup.Field: "is already taken"}
	}
	return err
}

func trimAddress(a Address) Address {
	return Address{
		Street:       strings.TrimSpace(a.Street),
		HouseNumber:  strings.TrimSpace(a.HouseNumber),
		Neighborhood: strings.TrimSpace(a.Neighborhood),
		City:         strings.TrimSpace(a.City),
	}
}
