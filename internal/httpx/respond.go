package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/identity"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/suppliers"
	"github.com/ariefcatur/go-storefront/internal/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorBody{Error: msg})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
}

// fail maps a domain error onto a response. Anything unrecognised is logged
// and reported as a generic 500.
func fail(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: verrs})
	case errors.Is(err, checkout.ErrUnauthorized):
		redirectToLogin(w, r)
	case errors.Is(err, catalog.ErrUnknownType):
		writeError(w, http.StatusNotFound, "Tipo de producto no encontrado.")
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "Producto no disponible.")
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, "Pedido no encontrado.")
	case errors.Is(err, suppliers.ErrNotFound):
		writeError(w, http.StatusNotFound, "Proveedor no encontrado.")
	case errors.Is(err, identity.ErrNotFound):
		writeError(w, http.StatusNotFound, "Usuario no encontrado.")
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusConflict, "El carrito está vacío.")
	case errors.Is(err, orders.ErrIllegalTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, catalog.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Catálogo no disponible, intenta de nuevo.")
	default:
		logging.WithTrace(r.Context(), log).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func form(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

// safeNext accepts only local absolute paths as post-login destinations.
func safeNext(next string) (string, bool) {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "", false
	}
	return next, true
}
