package httpx

import (
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartHandler struct {
	Carts *cart.Service
	Log   *zap.Logger
}

func (h *CartHandler) Register(r chi.Router) {
	r.Post("/cart/add/{type}/{id}", h.add)
	r.Get("/cart", h.view)
	r.Post("/cart/items/{key}/quantity", h.setQuantity)
	r.Delete("/cart/items/{key}", h.remove)
	r.Delete("/cart", h.clear)
}

// add redirects to the cart view; unknown products answer 404 and leave the cart alone.
func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	t, err := catalog.ParseProductType(chi.URLParam(r, "type"))
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		fail(w, r, h.Log, catalog.ErrNotFound)
		return
	}
	if _, err := h.Carts.Add(r.Context(), SessionID(r.Context()), t, id); err != nil {
		fail(w, r, h.Log, err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *CartHandler) view(w http.ResponseWriter, r *http.Request) {
	c, err := h.Carts.Get(r.Context(), SessionID(r.Context()))
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCart(c, ""))
}

func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	qty, err := strconv.Atoi(form(r, "quantity"))
	if err != nil {
		fail(w, r, h.Log, validation.Errors{"quantity": "must be a whole number"})
		return
	}
	c, err := h.Carts.SetQuantity(r.Context(), SessionID(r.Context()), chi.URLParam(r, "key"), qty)
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCart(c, "Carrito actualizado."))
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	c, err := h.Carts.Remove(r.Context(), SessionID(r.Context()), chi.URLParam(r, "key"))
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCart(c, "Producto eliminado del carrito."))
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Carts.Clear(r.Context(), SessionID(r.Context())); err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCart(&cart.Cart{}, "Carrito vacío."))
}
