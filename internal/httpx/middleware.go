package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/identity"
	"github.com/ariefcatur/go-storefront/internal/session"
	"go.uber.org/zap"
)

type ctxKey int

const (
	ctxSessionID ctxKey = iota
	ctxUser
)

// SessionID returns the id the Sessions middleware attached to ctx.
func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(ctxSessionID).(string)
	return sid
}

// CurrentUser returns the logged-in user, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *identity.User {
	u, _ := ctx.Value(ctxUser).(*identity.User)
	return u
}

type UserLookup interface {
	Get(ctx context.Context, id int64) (identity.User, error)
}

// Sessions issues the session cookie and resolves the logged-in user.
type Sessions struct {
	Store  *session.Store
	Users  UserLookup
	Cookie string
	TTL    time.Duration
	Secure bool
	Log    *zap.Logger
}

func (s *Sessions) setCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.Cookie,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(s.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Sessions) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.Cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var sid string
		if c, err := r.Cookie(s.Cookie); err == nil && session.ValidID(c.Value) {
			sid = c.Value
		} else {
			sid = session.NewID()
			s.setCookie(w, sid)
		}
		ctx = context.WithValue(ctx, ctxSessionID, sid)

		uid, ok, err := s.Store.UserID(ctx, sid)
		if err != nil {
			fail(w, r, s.Log, err)
			return
		}
		if ok {
			u, err := s.Users.Get(ctx, uid)
			switch {
			case err == nil && u.Active:
				ctx = context.WithValue(ctx, ctxUser, &u)
			case err == nil, errors.Is(err, identity.ErrNotFound):
				// deactivated or deleted since login
			default:
				fail(w, r, s.Log, err)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Login binds u to a fresh session id, carrying the cart over.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, u identity.User) error {
	sid, err := s.Store.Rotate(r.Context(), SessionID(r.Context()))
	if err != nil {
		return err
	}
	if err := s.Store.SetUser(r.Context(), sid, u.ID); err != nil {
		return err
	}
	s.setCookie(w, sid)
	return nil
}

// Logout drops the session, cart included.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	if err := s.Store.Destroy(r.Context(), SessionID(r.Context())); err != nil {
		return err
	}
	s.clearCookie(w)
	return nil
}

// RequireUser sends anonymous requests to the login page.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin must run after RequireUser.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := CurrentUser(r.Context()); u == nil || !u.Admin {
			writeError(w, http.StatusForbidden, "Acceso restringido.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
