package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/identity"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/suppliers"
	"github.com/ariefcatur/go-storefront/internal/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProductAdmin interface {
	catalog.Lookup
	ListByType(ctx context.Context, t catalog.ProductType) ([]catalog.Product, error)
	Create(ctx context.Context, p *catalog.Product) error
	Update(ctx context.Context, p *catalog.Product) error
	Delete(ctx context.Context, t catalog.ProductType, id int64) error
	CountByType(ctx context.Context) (map[catalog.ProductType]int, error)
}

type SupplierAdmin interface {
	List(ctx context.Context) ([]suppliers.Supplier, error)
	Create(ctx context.Context, s *suppliers.Supplier) error
	Update(ctx context.Context, s *suppliers.Supplier) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type OrderAdmin interface {
	OrderReader
	ListAll(ctx context.Context) ([]orders.Order, error)
	UpdateOrder(ctx context.Context, id int64, ch orders.Change) (orders.Order, orders.Status, error)
	Count(ctx context.Context) (int, error)
}

type UserAdmin interface {
	ByID(ctx context.Context, id int64) (identity.User, error)
	Count(ctx context.Context) (int, error)
}

// StatusNotifier hears about every admin order change.
type StatusNotifier interface {
	OrderStatusChanged(ctx context.Context, o orders.Order, from orders.Status)
}

type AdminHandler struct {
	Products  ProductAdmin
	Suppliers SupplierAdmin
	Orders    OrderAdmin
	Users     UserAdmin
	Notify    []StatusNotifier
	Log       *zap.Logger
}

// Register expects r to be behind RequireUser and RequireAdmin.
func (h *AdminHandler) Register(r chi.Router) {
	r.Get("/admin", h.dashboard)

	r.Get("/admin/products/{type}", h.listProducts)
	r.Post("/admin/products/{type}", h.createProduct)
	r.Put("/admin/products/{type}/{id}", h.updateProduct)
	r.Delete("/admin/products/{type}/{id}", h.deleteProduct)

	r.Get("/admin/suppliers", h.listSuppliers)
	r.Post("/admin/suppliers", h.createSupplier)
	r.Put("/admin/suppliers/{id}", h.updateSupplier)
	r.Delete("/admin/suppliers/{id}", h.deleteSupplier)

	r.Get("/admin/orders", h.listOrders)
	r.Patch("/admin/orders/{id}", h.updateOrder)

	r.Get("/admin/users/{id}", h.userDetail)
}

type dashboardDTO struct {
	Products  map[catalog.ProductType]int `json:"products"`
	Suppliers int                         `json:"suppliers"`
	Orders    int                         `json:"orders"`
	Users     int                         `json:"users"`
}

func (h *AdminHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		d   dashboardDTO
		err error
	)
	if d.Products, err = h.Products.CountByType(ctx); err != nil {
		fail(w, r, h.Log, err)
		return
	}
	if d.Suppliers, err = h.Suppliers.Count(ctx); err != nil {
		fail(w, r, h.Log, err)
		return
	}
	if d.Orders, err = h.Orders.Count(ctx); err != nil {
		fail(w, r, h.Log, err)
		return
	}
	if d.Users, err = h.Users.Count(ctx); err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func productForm(r *http.Request) catalog.ProductInput {
	return catalog.ProductInput{
		Name:     form(r, "name"),
		Price:    form(r, "price"),
		Category: form(r, "category"),
		ImageRef: form(r, "image_ref"),
		Size:     form(r, "size"),
		Color:    form(r, "color"),
	}
}

type productMessageDTO struct {
	Product productDTO `json:"product"`
	Message string     `json:"message"`
}

func (h *AdminHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	t, err := catalog.ParseProductType(chi.URLParam(r, "type"))
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	ps, err := h.Products.ListByType(r.Context(), t)
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"type": t, "type_name": t.DisplayName(), "products": toProducts(ps)})
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	t, err := catalog.ParseProductType(chi.URLParam(r, "type"))
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	p, err := productForm(r).Validate(t)
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	if err := h.Products.Create(r.Context(), &p); err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, productMessageDTO{Product: toProduct(p), Message: "Producto creado."})
}

func (h *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
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
	p, err := productForm(r).Validate(t)
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	p.ID = id
	if err := h.Products.Update(r.Context(), &p); err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, productMessageDTO{Product: toProduct(p), Message: "Producto actualizado."})
}

func (h *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
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
	if err := h.Products.Delete(r.Context(), t, id); err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Producto eliminado."})
}

func supplierForm(r *http.Request) suppliers.Input {
	return suppliers.Input{
		ProductRef: form(r, "product_ref"),
		Name:       form(r, "name"),
		Price:      form(r, "price"),
	}
}

type supplierMessageDTO struct {
	Supplier supplierDTO `json:"supplier"`
	Message  string      `json:"message"`
}

func (h *AdminHandler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Suppliers.List(r.Context())
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	out := make([]supplierDTO, len(list))
	for i, s := range list {
		out[i] = toSupplier(s)
	}
	writeJSON(w, http.StatusOK, map[string]any{"suppliers": out})
}

func (h *AdminHandler) createSupplier(w http.ResponseWriter, r *http.Request) {
	s, err := supplierForm(r).Validate()
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	if err := h.Suppliers.Create(r.Context(), &s); err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, supplierMessageDTO{Supplier: toSupplier(s), Message: "Proveedor creado."})
}

func (h *AdminHandler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		fail(w, r, h.Log, suppliers.ErrNotFound)
		return
	}
	s, err := supplierForm(r).Validate()
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	s.ID = id
	if err := h.Suppliers.Update(r.Context(), &s); err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, supplierMessageDTO{Supplier: toSupplier(s), Message: "Proveedor actualizado."})
}

func (h *AdminHandler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		fail(w, r, h.Log, suppliers.ErrNotFound)
		return
	}
	if err := h.Suppliers.Delete(r.Context(), id); err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Proveedor eliminado."})
}

func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orders.ListAll(r.Context())
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": toOrders(list)})
}

// orderChange reads status and delivery_at (RFC 3339 or YYYY-MM-DD) from the form.
func orderChange(r *http.Request) (orders.Change, error) {
	var ch orders.Change
	errs := validation.Errors{}
	if v := form(r, "status"); v != "" {
		s, err := orders.ParseStatus(v)
		if err != nil {
			errs.Add("status", "is not a valid status")
		} else {
			ch.Status = &s
		}
	}
	if v := form(r, "delivery_at"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			t, err = time.Parse(time.DateOnly, v)
		}
		if err != nil {
			errs.Add("delivery_at", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
		} else {
			ch.DeliveryAt = &t
		}
	}
	if err := errs.Err(); err != nil {
		return orders.Change{}, err
	}
	if ch.Empty() {
		return orders.Change{}, validation.Errors{"status": "status or delivery_at is required"}
	}
	return ch, nil
}

func (h *AdminHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		fail(w, r, h.Log, orders.ErrNotFound)
		return
	}
	ch, err := orderChange(r)
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	o, from, err := h.Orders.UpdateOrder(r.Context(), id, ch)
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	for _, n := range h.Notify {
		n.OrderStatusChanged(r.Context(), o, from)
	}
	h.Log.Info("order updated",
		zap.Int64("order_id", o.ID),
		zap.String("from", string(from)),
		zap.String("to", string(o.Status)),
		zap.Int64("admin_id", CurrentUser(r.Context()).ID))
	writeJSON(w, http.StatusOK, map[string]any{"order": toOrder(o), "message": "Estado del pedido actualizado."})
}

func (h *AdminHandler) userDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		fail(w, r, h.Log, identity.ErrNotFound)
		return
	}
	u, err := h.Users.ByID(r.Context(), id)
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	list, err := h.Orders.ListByOwner(r.Context(), id)
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUser(u), "active": u.Active, "orders": toOrders(list)})
}
