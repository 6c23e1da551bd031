package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const featuredPerType = 4

type ProductReader interface {
	catalog.Lookup
	ListByType(ctx context.Context, t catalog.ProductType) ([]catalog.Product, error)
	Search(ctx context.Context, term string) ([]catalog.Product, error)
	Featured(ctx context.Context, perType int) ([]catalog.Product, error)
}

type CatalogHandler struct {
	Products ProductReader
	Log      *zap.Logger
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/products", h.list)
	r.Get("/products/featured", h.featured)
	r.Get("/products/{type}", h.listByType)
	r.Get("/products/{type}/{id}", h.get)
}

type typeDTO struct {
	Type catalog.ProductType `json:"type"`
	Name string              `json:"name"`
}

// list searches when ?q= is present, otherwise it lists the product types.
func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		types := make([]typeDTO, 0, len(catalog.Types()))
		for _, t := range catalog.Types() {
			types = append(types, typeDTO{Type: t, Name: t.DisplayName()})
		}
		writeJSON(w, http.StatusOK, map[string]any{"types": types})
		return
	}
	ps, err := h.Products.Search(r.Context(), q)
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": q, "products": toProducts(ps)})
}

func (h *CatalogHandler) featured(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Products.Featured(r.Context(), featuredPerType)
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": toProducts(ps)})
}

func (h *CatalogHandler) listByType(w http.ResponseWriter, r *http.Request) {
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

func (h *CatalogHandler) get(w http.ResponseWriter, r *http.Request) {
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
	p, err := h.Products.GetProduct(r.Context(), t, id)
	if err != nil {
		fail(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProduct(p))
}
