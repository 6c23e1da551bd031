package httpx

import "github.com/go-chi/chi/v5"

// API bundles every storefront handler behind the session middleware.
type API struct {
	Sessions *Sessions
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Auth     *AuthHandler
	Orders   *OrdersHandler
	Admin    *AdminHandler
}

func (a *API) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(a.Sessions.Middleware)
		a.Catalog.Register(r)
		a.Cart.Register(r)
		a.Auth.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser)
			a.Checkout.Register(r)
			a.Orders.Register(r)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				a.Admin.Register(r)
			})
		})
	})
}
