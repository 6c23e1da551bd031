package httpx

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/identity"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/session"
	"github.com/ariefcatur/go-storefront/internal/suppliers"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ---- fakes ----

type fakeProducts struct{ items []catalog.Product }

func (f *fakeProducts) GetProduct(_ context.Context, t catalog.ProductType, id int64) (catalog.Product, error) {
	for _, p := range f.items {
		if p.Type == t && p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, catalog.ErrNotFound
}

func (f *fakeProducts) ListByType(_ context.Context, t catalog.ProductType) ([]catalog.Product, error) {
	out := []catalog.Product{}
	for _, p := range f.items {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Search(_ context.Context, term string) ([]catalog.Product, error) {
	out := []catalog.Product{}
	for _, p := range f.items {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Featured(context.Context, int) ([]catalog.Product, error) { return f.items, nil }

func (f *fakeProducts) Create(_ context.Context, p *catalog.Product) error {
	p.ID = int64(len(f.items) + 100)
	f.items = append(f.items, *p)
	return nil
}

func (f *fakeProducts) Update(context.Context, *catalog.Product) error { return nil }

func (f *fakeProducts) Delete(_ context.Context, t catalog.ProductType, id int64) error {
	for i, p := range f.items {
		if p.Type == t && p.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (f *fakeProducts) CountByType(context.Context) (map[catalog.ProductType]int, error) {
	out := map[catalog.ProductType]int{}
	for _, p := range f.items {
		out[p.Type]++
	}
	return out, nil
}

type fakeOrders struct {
	byID   map[int64]orders.Order
	byExt  map[string]int64
	nextID int64
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byID: map[int64]orders.Order{}, byExt: map[string]int64{}}
}

func (f *fakeOrders) CreateOrderTx(_ context.Context, o *orders.Order) (bool, error) {
	if id, ok := f.byExt[o.ExternalID]; ok {
		*o = f.byID[id]
		return true, nil
	}
	f.nextID++
	o.ID = f.nextID
	f.byID[o.ID] = *o
	f.byExt[o.ExternalID] = o.ID
	return false, nil
}

func (f *fakeOrders) GetOrder(_ context.Context, id int64) (orders.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) ListByOwner(_ context.Context, owner int64) ([]orders.Order, error) {
	out := []orders.Order{}
	for _, o := range f.byID {
		if o.OwnerID == owner {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) ListAll(context.Context) ([]orders.Order, error) {
	out := []orders.Order{}
	for _, o := range f.byID {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrders) UpdateOrder(_ context.Context, id int64, ch orders.Change) (orders.Order, orders.Status, error) {
	o, ok := f.byID[id]
	if !ok {
		return orders.Order{}, "", orders.ErrNotFound
	}
	from := o.Status
	if ch.Status != nil {
		if !orders.CanTransition(from, *ch.Status) {
			return orders.Order{}, "", orders.ErrIllegalTransition
		}
		o.Status = *ch.Status
	}
	if ch.DeliveryAt != nil {
		o.DeliveryAt = *ch.DeliveryAt
	}
	f.byID[id] = o
	return o, from, nil
}

func (f *fakeOrders) Count(context.Context) (int, error) { return len(f.byID), nil }

type fakeSuppliers struct{ list []suppliers.Supplier }

func (f *fakeSuppliers) List(context.Context) ([]suppliers.Supplier, error) { return f.list, nil }
func (f *fakeSuppliers) Create(_ context.Context, s *suppliers.Supplier) error {
	s.ID = int64(len(f.list) + 1)
	f.list = append(f.list, *s)
	return nil
}
func (f *fakeSuppliers) Update(context.Context, *suppliers.Supplier) error { return nil }
func (f *fakeSuppliers) Delete(_ context.Context, id int64) error {
	return suppliers.ErrNotFound
}
func (f *fakeSuppliers) Count(context.Context) (int, error) { return len(f.list), nil }

type fakeUsers struct {
	byID   map[int64]identity.User
	nextID int64
}

func (f *fakeUsers) ByID(_ context.Context, id int64) (identity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return identity.User{}, identity.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) ByUsername(_ context.Context, name string) (identity.User, error) {
	for _, u := range f.byID {
		if u.Username == name {
			return u, nil
		}
	}
	return identity.User{}, identity.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, u *identity.User) error {
	for _, o := range f.byID {
		if o.Username == u.Username {
			return &identity.DuplicateError{Field: "username"}
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, u *identity.User) error {
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) SetFlags(_ context.Context, id int64, active, admin bool) error {
	u := f.byID[id]
	u.Active, u.Admin = active, admin
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) Count(context.Context) (int, error) { return len(f.byID), nil }

// ---- harness ----

type harness struct {
	t        *testing.T
	srv      *httptest.Server
	client   *http.Client
	mr       *miniredis.Miniredis
	sessions *session.Store
	products *fakeProducts
	orders   *fakeOrders
	users    *fakeUsers
	identity *identity.Service
	cache    *orders.StatusCache
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	log := zap.NewNop()
	store := &session.Store{Redis: rdb, TTL: time.Hour}
	products := &fakeProducts{items: []catalog.Product{
		{Type: catalog.TypePC, ID: 1, Name: "PC Gamer", Price: decimal.RequireFromString("15000.00"), Category: "Gaming"},
		{Type: catalog.TypeMouse, ID: 3, Name: "Mouse", Price: decimal.RequireFromString("500.00"), Category: "Oficina", Color: "Negro"},
	}}
	ords := newFakeOrders()
	users := &fakeUsers{byID: map[int64]identity.User{}}
	ids := &identity.Service{Users: users, Cost: bcrypt.MinCost}
	cache := &orders.StatusCache{Redis: rdb}

	carts := &cart.Service{
		Store:   store,
		Locks:   &redisx.Locker{Redis: rdb, TTL: 5 * time.Second, Wait: 100 * time.Millisecond},
		Catalog: products,
	}
	sessions := &Sessions{Store: store, Users: ids, Cookie: "sid", TTL: time.Hour, Log: log}
	api := &API{
		Sessions: sessions,
		Catalog:  &CatalogHandler{Products: products, Log: log},
		Cart:     &CartHandler{Carts: carts, Log: log},
		Checkout: &CheckoutHandler{Checkout: &checkout.Service{
			Carts: carts, Orders: ords, Notify: []checkout.Notifier{cache}, Log: log,
		}, Log: log},
		Auth:   &AuthHandler{Identity: ids, Sessions: sessions, Log: log},
		Orders: &OrdersHandler{Orders: ords, Cache: cache, Log: log},
		Admin: &AdminHandler{
			Products: products, Suppliers: &fakeSuppliers{}, Orders: ords, Users: users,
			Notify: []StatusNotifier{cache}, Log: log,
		},
	}
	r := NewRouter(5 * time.Second)
	api.Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &harness{
		t: t, srv: srv, mr: mr, sessions: store, products: products, orders: ords,
		users: users, identity: ids, cache: cache,
		client: newClient(t),
	}
}

// newClient keeps cookies and does not follow redirects.
func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (h *harness) do(method, path string, vals url.Values) *http.Response {
	h.t.Helper()
	var body *strings.Reader
	if vals != nil {
		body = strings.NewReader(vals.Encode())
	} else {
		body = strings.NewReader("")
	}
	req, err := http.NewRequest(method, h.srv.URL+path, body)
	require.NoError(h.t, err)
	if vals != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := h.client.Do(req)
	require.NoError(h.t, err)
	h.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// registerAndLogin creates an account through the API; the client ends up logged in.
func (h *harness) registerAndLogin(username string, admin bool) identity.User {
	h.t.Helper()
	resp := h.do(http.MethodPost, "/register", url.Values{
		"username":         {username},
		"name":             {"Ana"},
		"email":            {username + "@example.com"},
		"password":         {"s3cret-pass"},
		"password_confirm": {"s3cret-pass"},
		"street":           {"Madero"},
		"house_number":     {"5"},
		"neighborhood":     {"Centro"},
		"city":             {"CDMX"},
	})
	require.Equal(h.t, http.StatusCreated, resp.StatusCode)
	u, err := h.identity.Authenticate(context.Background(), username, "s3cret-pass")
	require.NoError(h.t, err)
	if admin {
		require.NoError(h.t, h.users.SetFlags(context.Background(), u.ID, true, true))
		u.Admin = true
	}
	return u
}
